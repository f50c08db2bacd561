package columns

// SplitBalanced spreads items over columns as evenly as possible. Each
// column receives a contiguous slice of the input; the first n mod columns
// columns hold one extra item.
//
// The returned buckets share the input's backing array and are clipped to
// their own length, so appending to one never overwrites another.
func SplitBalanced[T any](items []T, columns int, rows RowCap) [][]T {
	columns = normalizeColumns(columns)
	n := Capacity(len(items), columns, rows)

	base, extra := n/columns, n%columns
	result := make([][]T, columns)
	start := 0
	for i := range result {
		size := base
		if i < extra {
			size++
		}
		result[i] = view(items, start, start+size)
		start += size
	}
	return result
}

// SplitColumnFill fills column 0 up to the row cap before moving on to
// column 1, and so on. Without a row cap every item lands in column 0.
func SplitColumnFill[T any](items []T, columns int, rows RowCap) [][]T {
	columns = normalizeColumns(columns)
	n := Capacity(len(items), columns, rows)
	limit, capped := rows.Limit()

	result := emptyBuckets[T](columns)
	col, row := 0, 0
	for _, item := range items[:n] {
		result[col] = append(result[col], item)
		row++
		if capped && row >= limit {
			row = 0
			col++
		}
	}
	return result
}

// SplitRowMajor assigns item i to column i mod columns, walking across the
// columns before going down a row.
func SplitRowMajor[T any](items []T, columns int, rows RowCap) [][]T {
	columns = normalizeColumns(columns)
	n := Capacity(len(items), columns, rows)

	result := make([][]T, columns)
	for i := range result {
		size := n / columns
		if i < n%columns {
			size++
		}
		result[i] = make([]T, 0, size)
	}
	for i, item := range items[:n] {
		result[i%columns] = append(result[i%columns], item)
	}
	return result
}

// splitSingle is the fallback for unknown orders.
func splitSingle[T any](items []T, _ int, _ RowCap) [][]T {
	return [][]T{view(items, 0, len(items))}
}

// view returns items[lo:hi] with capacity clipped to its length. Empty
// ranges yield a non-nil empty slice.
func view[T any](items []T, lo, hi int) []T {
	if lo == hi {
		return []T{}
	}
	return items[lo:hi:hi]
}

func emptyBuckets[T any](columns int) [][]T {
	result := make([][]T, columns)
	for i := range result {
		result[i] = []T{}
	}
	return result
}
