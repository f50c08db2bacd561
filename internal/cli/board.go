package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventboard/pkg/board"
	"github.com/matzehuels/eventboard/pkg/columns"
	"github.com/matzehuels/eventboard/pkg/event"
)

// Terminal cells are roughly 8px wide and 16px tall.
const (
	pxPerCellX = 8
	pxPerCellY = 16

	defaultCardWidth = 28
)

var (
	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	styleCardAttending = styleCard.BorderForeground(colorGreen)
)

// layoutFlags are the flags shared by board and browse.
type layoutFlags struct {
	columns int
	rows    int
	order   string
	gapX    string
	gapY    string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.columns, "columns", "c", 0, "number of columns (default: config columns)")
	cmd.Flags().IntVarP(&f.rows, "rows", "r", 0, "rows per column, 0 for unlimited (default: config rows)")
	cmd.Flags().StringVarP(&f.order, "order", "o", "", "column order: column, column-fill, row (default: config order)")
	cmd.Flags().StringVar(&f.gapX, "gap-x", "", "horizontal gap, e.g. 16px (default: config gap_x)")
	cmd.Flags().StringVar(&f.gapY, "gap-y", "", "vertical gap, e.g. 8px (default: config gap_y)")
}

// options merges explicitly set flags over the configured layout.
func (f *layoutFlags) options(cmd *cobra.Command, base board.LayoutOptions) board.LayoutOptions {
	opts := base
	if cmd.Flags().Changed("columns") {
		opts.Columns = f.columns
	}
	if cmd.Flags().Changed("rows") {
		opts.Rows = columns.Rows(f.rows)
	}
	if cmd.Flags().Changed("order") {
		opts.Order = columns.ParseOrder(f.order)
	}
	if cmd.Flags().Changed("gap-x") {
		opts.GapX = columns.ParsePixels(f.gapX)
	}
	if cmd.Flags().Changed("gap-y") {
		opts.GapY = columns.ParsePixels(f.gapY)
	}
	return opts
}

// boardCommand creates the board command showing events in columns.
func (c *CLI) boardCommand() *cobra.Command {
	var (
		flags     layoutFlags
		asJSON    bool
		cardWidth int
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board laid out in columns",
		Long: `Show the board laid out in columns.

Orders:
  column       contiguous runs, column sizes differ by at most one
  column-fill  fill the first column up to --rows, then the next
  row          deal events round-robin across the columns

Any other order shows a single column. With --rows set, events that do not
fit are left out and reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.cfg.LayoutOptions())
			if err := opts.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := c.openApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			l, err := a.board.Layout(ctx, opts)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(l)
			}

			if l.Total == 0 {
				printInfo("No events yet")
				return nil
			}
			fmt.Fprintln(stdout, composeBoard(l, c.cfg.User, cardWidth))
			if l.Dropped > 0 {
				printWarning("%d of %d events did not fit (%s rows per column)", l.Dropped, l.Total, l.Rows)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")
	cmd.Flags().IntVar(&cardWidth, "card-width", defaultCardWidth, "card width in cells")

	return cmd
}

// composeBoard paints the columns of l side by side, each event as a card.
// Gaps are converted from pixels to cells.
func composeBoard(l board.Layout, user string, cardWidth int) string {
	if cardWidth <= 4 {
		cardWidth = defaultCardWidth
	}
	gapX := columns.ParsePixels(l.GapX).Cells(pxPerCellX)
	gapY := columns.ParsePixels(l.GapY).Cells(pxPerCellY)

	cols := make([]string, 0, 2*len(l.Columns))
	for i, col := range l.Columns {
		if i > 0 && gapX > 0 {
			cols = append(cols, strings.Repeat(" ", gapX))
		}
		cols = append(cols, composeColumn(col, user, cardWidth, gapY))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func composeColumn(es event.Events, user string, width, gapY int) string {
	if len(es) == 0 {
		// Keep empty columns as wide as the others.
		return lipgloss.NewStyle().Width(width + 2).Render("")
	}
	cards := make([]string, 0, 2*len(es))
	for i, ev := range es {
		if i > 0 && gapY > 0 {
			cards = append(cards, strings.Repeat("\n", gapY-1))
		}
		cards = append(cards, card(ev, user, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func card(ev event.Event, user string, width int) string {
	style := styleCard
	title := ev.Title
	if ev.IsAttending(user) {
		style = styleCardAttending
		title += " " + iconAttending
	}
	lines := []string{
		StyleTitle.Render(title),
		StyleValue.Render(ev.Date),
		StyleDim.Render(ev.StartTime + " " + iconArrow + " " + ev.EndTime),
		StyleDim.Render(fmt.Sprintf("%d going", len(ev.Attending))),
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}
