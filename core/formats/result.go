package formats

import "fmt"

// ImportResult aggregates the outcome of importing one or more documents.
// Warnings are recoverable problems; Errors are per-document hard failures.
type ImportResult[T any] struct {
	Created  []T
	Updated  []T
	Warnings []string
	Errors   []error
}

// NewImportResult returns an empty result.
func NewImportResult[T any]() *ImportResult[T] {
	return &ImportResult[T]{}
}

// Warn records a warning.
func (r *ImportResult[T]) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Warnf records a formatted warning.
func (r *ImportResult[T]) Warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Fail records a hard failure.
func (r *ImportResult[T]) Fail(err error) {
	if err != nil {
		r.Errors = append(r.Errors, err)
	}
}

// Merge appends every entry of other to r.
func (r *ImportResult[T]) Merge(other *ImportResult[T]) {
	if other == nil {
		return
	}
	r.Created = append(r.Created, other.Created...)
	r.Updated = append(r.Updated, other.Updated...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Errors = append(r.Errors, other.Errors...)
}

// HasErrors reports whether any hard failure was recorded.
func (r *ImportResult[T]) HasErrors() bool {
	return len(r.Errors) > 0
}

// Documents returns created and updated documents together.
func (r *ImportResult[T]) Documents() []T {
	out := make([]T, 0, len(r.Created)+len(r.Updated))
	out = append(out, r.Created...)
	return append(out, r.Updated...)
}
