package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule 挂在 /api 之下的业务模块
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 每个引擎一份，测试可以并行构建多个引擎
type Registry struct {
	mods []APIModule
}

func (r *Registry) Register(mods ...APIModule) {
	r.mods = append(r.mods, mods...)
}

// MountAll 按优先级挂载全部模块
func (r *Registry) MountAll(api *gin.RouterGroup) {
	mods := append([]APIModule(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(api)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
