package api

// Optional marks a request field as either provided or absent. The zero
// value is absent, which is distinct from a provided zero value.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a provided Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the held value and whether it was provided.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was provided.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Or returns the held value, or fallback when absent.
func (o Optional[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// Field returns the held value boxed, for body construction.
func (o Optional[T]) Field() (any, bool) {
	return o.value, o.set
}

// Field is anything that can contribute a possibly-absent value to a NoNullDict.
type Field interface {
	Field() (any, bool)
}

// Fields maps wire keys to possibly-absent values.
type Fields map[string]Field

// NoNullDict is a request body that only ever contains provided keys.
type NoNullDict map[string]any

// NoNull builds a NoNullDict from fields, dropping every absent entry.
func NoNull(fields Fields) NoNullDict {
	d := make(NoNullDict, len(fields))
	for key, f := range fields {
		if f == nil {
			continue
		}
		if v, ok := f.Field(); ok {
			d[key] = v
		}
	}
	return d
}

// Empty reports whether no field was provided.
func (d NoNullDict) Empty() bool {
	return len(d) == 0
}
