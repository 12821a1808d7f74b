package domain

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page 1 起始的分页参数
type Page struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize 非法值回落到默认，limit 上限 100
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type Paged[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewPaged items 为 nil 时序列化为 []
func NewPaged[T any](items []T, p Page, total int64) Paged[T] {
	if items == nil {
		items = []T{}
	}
	lim := int64(p.Limit)
	var pages int64
	if lim > 0 {
		pages = (total + lim - 1) / lim
	}
	return Paged[T]{
		Items:      items,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages},
	}
}
