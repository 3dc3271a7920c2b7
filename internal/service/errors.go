package service

import "errors"

// 业务层通用错误，handler 根据错误类型映射到合适的HTTP状态码
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)
