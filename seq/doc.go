// Package seq builds ordered slices from a mixture of single values and
// spliced sub-sequences in one expression.
//
// Each argument to [Of] is an [Item]: either a single value created with
// [One], or a sequence created with [Spread] (a slice) or [SpreadSeq] (any
// [iter.Seq]) whose elements are spliced in at that position.
//
//	a := []int{2, 3}
//	b := seq.Of(seq.One(0), seq.One(1), seq.Spread(a), seq.One(4), seq.One(5))
//	// b == []int{0, 1, 2, 3, 4, 5}
//
// Items are applied strictly left to right. Each value item is appended once
// and each spread item is flattened exactly one level deep, in the order its
// source yields elements. When no item is a spread, [Values] is the
// equivalent (and cheaper) form.
//
// Element types are checked by the compiler: a value or spread whose element
// type differs from the result type does not build.
package seq
