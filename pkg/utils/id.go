package utils

import "github.com/google/uuid"

// NewID 生成实体主键
func NewID() string { return uuid.NewString() }
