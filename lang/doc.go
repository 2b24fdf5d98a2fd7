// Package lang implements the textual form of the list expander.
//
// A list is written as a bracketed, comma-separated sequence of items:
//
//	[0, 1, @a, 4, 5,]
//
// Each item is an expr-lang expression. An item prefixed with '@' is a
// spread item: its value must be a slice, an array, or an iterator function
// func(func(E) bool), and every element it yields is spliced into the result
// at the item's position. All other items are value items and contribute
// exactly one element. A trailing comma is permitted and has no effect.
//
// Source text goes through three stages:
//
//  1. [Parse] splits the text into a [List] of [Item] values.
//  2. [Compile] compiles and type-checks every item against an environment
//     and an element type, producing a [Program]. All grammar and typing
//     errors surface here, before anything is evaluated.
//  3. [Program.Run] evaluates the items strictly left to right.
//
// [Expand] performs all three with a process-wide cache of compiled
// programs and returns a typed slice.
package lang
