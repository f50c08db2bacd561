// Package columns distributes an ordered list of items into a fixed number
// of display columns.
//
// # Overview
//
// A board shows its items in columns. This package only computes which item
// goes into which column; painting is left to the caller. Three policies are
// available:
//
//   - [OrderBalanced]: contiguous slices, column sizes differ by at most one,
//     earlier columns take the remainder
//   - [OrderColumnFill]: fill column 0 up to the row cap, then column 1, ...
//   - [OrderRowMajor]: round-robin, item i lands in column i mod columns
//
// Any other order ([OrderSingle]) renders everything in one column.
//
// # Normalization
//
// Invalid input is normalized rather than rejected:
//
//   - a column count <= 0 is treated as 1
//   - a row cap <= 0 is treated as [Unlimited]
//   - items beyond columns*rows are dropped; use [Dropped] to learn how many
//
// # Usage
//
//	cols := columns.Distribute(cards, 3, columns.Rows(2), columns.OrderBalanced)
//	for i, col := range cols {
//	    fmt.Println(i, len(col))
//	}
//
// Gaps between columns and rows are expressed as pixel strings ("8px") and
// normalized with [ParsePixels].
//
// All functions are pure: they never mutate their input and keep no state,
// so they are safe for concurrent use.
package columns
