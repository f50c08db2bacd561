package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventboard/pkg/board"
	"github.com/matzehuels/eventboard/pkg/columns"
)

// columnsCommand distributes arbitrary words into columns. It is a direct
// way to try the orders without touching the board.
func (c *CLI) columnsCommand() *cobra.Command {
	var (
		cols   int
		rows   int
		order  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "columns [items...]",
		Short: "Distribute items into columns",
		Example: `  eventboard columns -c 3 -o row a b c d e f g
  eventboard columns -c 2 -r 2 -o column-fill a b c d e --json`,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := board.CheckColumns(cols); err != nil {
				return err
			}
			o := columns.ParseOrder(order)
			rc := columns.Rows(rows)
			buckets := columns.Distribute(args, cols, rc, o)

			if asJSON {
				return json.NewEncoder(stdout).Encode(buckets)
			}
			fmt.Fprintln(stdout, renderColumns(buckets))
			printDetail("%s · %d columns · %s rows", o, len(buckets), rc)
			placed := 0
			for _, b := range buckets {
				placed += len(b)
			}
			if n := len(args) - placed; n > 0 {
				printWarning("%d items did not fit", n)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&cols, "columns", "c", 3, "number of columns")
	cmd.Flags().IntVarP(&rows, "rows", "r", 0, "rows per column, 0 for unlimited")
	cmd.Flags().StringVarP(&order, "order", "o", columns.NameBalanced, "column order: column, column-fill, row")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the columns as a JSON array of arrays")

	return cmd
}

func renderColumns(buckets [][]string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(colorDim).
		Padding(0, 1)

	rendered := make([]string, len(buckets))
	for i, b := range buckets {
		body := strings.Join(b, "\n")
		if len(b) == 0 {
			body = StyleDim.Render("·")
		}
		rendered[i] = box.Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
