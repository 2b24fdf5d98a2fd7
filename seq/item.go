package seq

import "iter"

// kind distinguishes the two cases of an [Item].
type kind uint8

const (
	kindOne   kind = iota // single value
	kindSlice             // spliced slice
	kindSeq               // spliced iterator
)

// Item is a single argument to [Of]: either one value or a sequence of values
// to splice into the result.
//
// The zero Item is a value item holding the zero value of T.
type Item[T any] struct {
	one  T
	many []T
	seq  iter.Seq[T]
	kind kind
}

// One returns a value item contributing exactly v.
func One[T any](v T) Item[T] {
	return Item[T]{one: v, kind: kindOne}
}

// Spread returns a spread item contributing every element of s, in order.
// A nil or empty slice contributes nothing.
func Spread[T any](s []T) Item[T] {
	return Item[T]{many: s, kind: kindSlice}
}

// SpreadSeq returns a spread item contributing every element yielded by s,
// in order. The iterator is drained once, when the item is applied.
// A nil iterator contributes nothing.
func SpreadSeq[T any](s iter.Seq[T]) Item[T] {
	return Item[T]{seq: s, kind: kindSeq}
}

// IsSpread reports whether the item splices a sequence.
func (it Item[T]) IsSpread() bool { return it.kind != kindOne }

// Len returns the number of elements the item contributes, or -1 if the item
// wraps an iterator whose length is unknown until it is drained.
func (it Item[T]) Len() int {
	switch it.kind {
	case kindSlice:
		return len(it.many)
	case kindSeq:
		return -1
	default:
		return 1
	}
}

// All returns an iterator over the elements the item contributes.
func (it Item[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		switch it.kind {
		case kindOne:
			yield(it.one)

		case kindSlice:
			for _, v := range it.many {
				if !yield(v) {
					return
				}
			}

		case kindSeq:
			if it.seq == nil {
				return
			}

			for v := range it.seq {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// appendTo appends the item's contribution to dst.
func (it Item[T]) appendTo(dst []T) []T {
	switch it.kind {
	case kindSlice:
		return append(dst, it.many...)

	case kindSeq:
		if it.seq == nil {
			return dst
		}

		for v := range it.seq {
			dst = append(dst, v)
		}

		return dst

	default:
		return append(dst, it.one)
	}
}
