package ptr

func Of[T any](v T) *T {
	return &v
}

// Deref returns the zero value for a nil pointer.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Clone copies the pointee so callers never share mutable state.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
