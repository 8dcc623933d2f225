package util

// Ptr 可选字段取地址
func Ptr[T any](v T) *T {
	return &v
}

// ValueOr p 为空时返回 def
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
