package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schedgrid/pkg/rows"
)

// indexCommand creates the index command showing bookings per cell.
func (c *CLI) indexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Show booking counts per date and resource",
		Long: `Show how many bookings fall into each (date, resource) cell of the visible
range. Linked bookings count on every resource they occupy; undated bookings
are not indexed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIndex(cmd.Context())
		},
	}
}

func (c *CLI) runIndex(ctx context.Context) error {
	ws, err := c.openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close(ctx)

	dates := ws.engine.DateKeys()
	ix := ws.engine.Index()

	headers := []string{"Resource"}
	for _, d := range dates {
		headers = append(headers, d[5:])
	}

	var data [][]string
	for _, g := range rows.GroupResources(ws.data.Resources, ws.data.Groups) {
		for _, r := range g.Resources {
			row := []string{r.DisplayName()}
			for _, d := range dates {
				n := len(ix.At(d, r.ID))
				if n == 0 {
					row = append(row, "·")
					continue
				}
				row = append(row, strconv.Itoa(n))
			}
			data = append(data, row)
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleValue
			}
			return StyleNumber.Align(lipgloss.Right)
		})

	fmt.Println(t.Render())
	printDetail("%d entries in %d cells", ix.Entries(), len(ix))
	return nil
}
