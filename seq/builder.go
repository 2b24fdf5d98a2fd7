package seq

import (
	"iter"
	"slices"
)

// Builder accumulates the same push/extend operations as [Of], one call at a
// time. The zero Builder is ready to use.
type Builder[T any] struct {
	items []T
}

// NewBuilder returns a Builder with room for size elements.
func NewBuilder[T any](size int) *Builder[T] {
	return &Builder[T]{items: make([]T, 0, max(size, 0))}
}

// Push appends each of v.
func (b *Builder[T]) Push(v ...T) *Builder[T] {
	b.items = append(b.items, v...)

	return b
}

// Extend appends every element of s, in order.
func (b *Builder[T]) Extend(s []T) *Builder[T] {
	b.items = append(b.items, s...)

	return b
}

// ExtendSeq appends every element yielded by s, in order.
func (b *Builder[T]) ExtendSeq(s iter.Seq[T]) *Builder[T] {
	b.items = SpreadSeq(s).appendTo(b.items)

	return b
}

// Add applies items in order.
func (b *Builder[T]) Add(items ...Item[T]) *Builder[T] {
	b.items = Append(b.items, items...)

	return b
}

// Len returns the number of elements accumulated so far.
func (b *Builder[T]) Len() int { return len(b.items) }

// Items returns the accumulated elements. The result is never nil, and later
// calls on b do not modify it.
func (b *Builder[T]) Items() []T {
	if b.items == nil {
		return []T{}
	}

	return slices.Clip(b.items)
}
