package columns

import (
	"strconv"
	"strings"
)

// Order selects the policy used to split items into columns.
type Order int

const (
	// OrderSingle puts every item into one column. It is the fallback for
	// unrecognized order names.
	OrderSingle Order = iota
	OrderBalanced
	OrderColumnFill
	OrderRowMajor
)

// Wire names of the orders, as accepted by ParseOrder.
const (
	NameBalanced   = "column"
	NameColumnFill = "column-fill"
	NameRowMajor   = "row"
	NameSingle     = "single"
)

// ParseOrder maps an order name to an Order. Unknown names, including the
// empty string, map to OrderSingle.
func ParseOrder(s string) Order {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case NameBalanced, "balanced":
		return OrderBalanced
	case NameColumnFill, "columnfill":
		return OrderColumnFill
	case NameRowMajor, "row-major", "rowmajor":
		return OrderRowMajor
	default:
		return OrderSingle
	}
}

// String returns the wire name of the order.
func (o Order) String() string {
	switch o {
	case OrderBalanced:
		return NameBalanced
	case OrderColumnFill:
		return NameColumnFill
	case OrderRowMajor:
		return NameRowMajor
	default:
		return NameSingle
	}
}

// RowCap is an optional per-column row limit. The zero value is Unlimited.
type RowCap struct {
	rows int
	set  bool
}

// Unlimited is the absent row cap.
var Unlimited = RowCap{}

// Rows returns a cap of n rows per column. n <= 0 yields Unlimited.
func Rows(n int) RowCap {
	if n <= 0 {
		return Unlimited
	}
	return RowCap{rows: n, set: true}
}

// Limit returns the row limit and whether one is set.
func (c RowCap) Limit() (int, bool) { return c.rows, c.set }

// String returns the row limit, or "unlimited".
func (c RowCap) String() string {
	if !c.set {
		return "unlimited"
	}
	return strconv.Itoa(c.rows)
}

// SplitFunc partitions items into column buckets.
type SplitFunc[T any] func(items []T, columns int, rows RowCap) [][]T

// Select returns the split function for the given order. Unknown orders get
// a function that ignores columns and rows and returns a single bucket with
// all items.
func Select[T any](o Order) SplitFunc[T] {
	switch o {
	case OrderBalanced:
		return SplitBalanced[T]
	case OrderColumnFill:
		return SplitColumnFill[T]
	case OrderRowMajor:
		return SplitRowMajor[T]
	default:
		return splitSingle[T]
	}
}

// Distribute splits items into columns according to order.
func Distribute[T any](items []T, columns int, rows RowCap, order Order) [][]T {
	return Select[T](order)(items, columns, rows)
}

// Capacity returns how many of n items fit into columns*rows. With an
// unlimited cap every item fits.
func Capacity(n, columns int, rows RowCap) int {
	columns = normalizeColumns(columns)
	// r <= (n-1)/columns is columns*r < n without the overflow.
	if r, ok := rows.Limit(); ok && n > 0 && r <= (n-1)/columns {
		return columns * r
	}
	return n
}

// Dropped returns how many of n items a capped split discards.
func Dropped(n, columns int, rows RowCap) int {
	return n - Capacity(n, columns, rows)
}

func normalizeColumns(columns int) int {
	if columns <= 0 {
		return 1
	}
	return columns
}
