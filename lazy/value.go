// Package lazy provides the dirty-flag cache used for derived geometric attributes.
//
// A derived quantity (face normal, centroid, area, bounding box, a primitive's cap
// center...) is stored in a Value. Readers call Get with the function computing it
// from its inputs; the function only runs when the value is dirty. Writers that
// change an input call Invalidate on every Value they know depends on it. Nothing
// is recomputed eagerly, so several mutations between two reads cost a single
// recomputation.
//
// Values are not safe for concurrent use: a read racing an Invalidate can observe a
// torn flag. Serialize mutations against reads per shape.
package lazy

// Value is a memoized derived quantity. The zero value is dirty.
type Value[T any] struct {
	value T
	clean bool
}

// Get returns the memoized value, recomputing it first if it is dirty.
func (v *Value[T]) Get(compute func() T) T {
	if !v.clean {
		v.value = compute()
		v.clean = true
	}
	return v.value
}

// Peek returns the memoized value and whether it is current, without computing.
func (v *Value[T]) Peek() (T, bool) {
	return v.value, v.clean
}

// Invalidate marks the value dirty.
func (v *Value[T]) Invalidate() {
	v.clean = false
}

// Dirty reports whether the next Get will recompute.
func (v *Value[T]) Dirty() bool {
	return !v.clean
}

// Invalidator is anything holding dirty flags.
type Invalidator interface {
	Invalidate()
}

// InvalidateAll flips every flag in values.
func InvalidateAll(values ...Invalidator) {
	for _, value := range values {
		value.Invalidate()
	}
}
