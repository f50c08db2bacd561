package board

import (
	"context"

	"github.com/matzehuels/eventboard/pkg/columns"
	"github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/event"
	"github.com/matzehuels/eventboard/pkg/observability"
)

const (
	// DefaultColumns is the column count used when LayoutOptions.Columns is unset.
	DefaultColumns = 3

	// MaxColumns is the largest column count a layout accepts.
	MaxColumns = 100
)

// LayoutOptions selects how the board is split into columns.
type LayoutOptions struct {
	Columns int            // Number of columns (<= 0 means 1)
	Rows    columns.RowCap // Per-column row limit
	Order   columns.Order
	GapX    columns.Pixels // Horizontal gap between columns
	GapY    columns.Pixels // Vertical gap between rows
}

// Validate rejects column counts above MaxColumns.
func (o LayoutOptions) Validate() error {
	return CheckColumns(o.Columns)
}

// CheckColumns returns an INVALID_INPUT error if n exceeds MaxColumns.
func CheckColumns(n int) error {
	if n > MaxColumns {
		return errors.New(errors.ErrCodeInvalidInput, "at most %d columns are allowed, got %d", MaxColumns, n)
	}
	return nil
}

// Layout is the board split into columns.
type Layout struct {
	Columns []event.Events `json:"columns"`
	Order   string         `json:"order"`
	Rows    string         `json:"rows"`
	GapX    string         `json:"gapX"`
	GapY    string         `json:"gapY"`
	Total   int            `json:"total"`

	// Dropped counts events that did not fit under the row cap.
	Dropped int `json:"dropped"`
}

// Layout distributes the current list into columns.
func (b *Board) Layout(ctx context.Context, opts LayoutOptions) (Layout, error) {
	if err := opts.Validate(); err != nil {
		return Layout{}, err
	}
	es, err := b.List(ctx)
	if err != nil {
		return Layout{}, err
	}
	l := Arrange(es, opts)
	if l.Dropped > 0 {
		b.opts.Logger.Warn("events do not fit the layout",
			"dropped", l.Dropped, "columns", opts.Columns, "rows", opts.Rows.String())
	}
	observability.Board().OnLayout(ctx, l.Order, l.Total, l.Dropped)
	return l, nil
}

// Arrange splits es according to opts. Column counts above MaxColumns are
// clamped to it.
func Arrange(es event.Events, opts LayoutOptions) Layout {
	n := min(opts.Columns, MaxColumns)
	buckets := columns.Distribute([]event.Event(es), n, opts.Rows, opts.Order)

	l := Layout{
		Columns: make([]event.Events, len(buckets)),
		Order:   opts.Order.String(),
		Rows:    opts.Rows.String(),
		GapX:    opts.GapX.String(),
		GapY:    opts.GapY.String(),
		Total:   len(es),
	}
	placed := 0
	for i, bucket := range buckets {
		l.Columns[i] = event.Events(bucket)
		placed += len(bucket)
	}
	l.Dropped = len(es) - placed
	return l
}
