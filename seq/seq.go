package seq

// Of returns a new slice built from items, in order: each value item is
// appended once and each spread item is replaced by all of its elements.
//
// With no items the result is an empty, non-nil slice.
func Of[T any](items ...Item[T]) []T {
	return Append(make([]T, 0, capacity(items)), items...)
}

// Values returns a new slice holding v, in order. It is the form of [Of] in
// which every item is a value item, and it never aliases v.
func Values[T any](v ...T) []T {
	return append(make([]T, 0, len(v)), v...)
}

// Append applies items to dst in order, exactly as [Of] does to an empty
// slice, and returns the extended slice.
func Append[T any](dst []T, items ...Item[T]) []T {
	for _, it := range items {
		dst = it.appendTo(dst)
	}

	return dst
}

// capacity sums the lengths known before iteration. Iterator items count as
// zero and grow the result as they are drained.
func capacity[T any](items []Item[T]) int {
	n := 0

	for _, it := range items {
		if l := it.Len(); l > 0 {
			n += l
		}
	}

	return n
}
