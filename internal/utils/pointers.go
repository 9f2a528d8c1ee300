// Package utils holds helpers for the optional fields of the wire models.
package utils

// Ptr returns a pointer to a copy of v, for filling optional JSON fields.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences v, giving the zero value for nil.
func Value[T any](v *T) T {
	return ValueOr(v, *new(T))
}

// ValueOr dereferences v, giving fallback for nil.
func ValueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
