package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/cache"
	"github.com/matzehuels/schedgrid/pkg/lanes"
	"github.com/matzehuels/schedgrid/pkg/observability"
	"github.com/matzehuels/schedgrid/pkg/rows"
	"github.com/matzehuels/schedgrid/pkg/timeaxis"
)

// lanesCommand creates the lanes command for inspecting lane assignment.
func (c *CLI) lanesCommand() *cobra.Command {
	var svgOut string

	cmd := &cobra.Command{
		Use:   "lanes [resource]",
		Short: "Show the lane assignment of each resource",
		Long: `Show how overlapping bookings are packed into lanes, per resource and date.

With --svg, the overlap graph of one resource on the anchor date is rendered
with Graphviz: every booking is a node coloured by its lane and every
overlapping pair is joined by an edge (debug tool).`,
		Example: `  # All resources, one week
  schedgrid lanes -d examples/flightschool.toml --view week --date 2026-02-16

  # Overlap graph of one aircraft
  schedgrid lanes -d examples/flightschool.toml --date 2026-02-16 ac-1 --svg ac-1.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resource string
			if len(args) == 1 {
				resource = args[0]
			}
			if svgOut != "" && resource == "" {
				return fmt.Errorf("--svg needs a resource argument")
			}
			return c.runLanes(cmd.Context(), resource, svgOut)
		},
	}

	cmd.Flags().StringVar(&svgOut, "svg", "", "render the overlap graph of the resource to this SVG file")

	return cmd
}

func (c *CLI) runLanes(ctx context.Context, resource, svgOut string) error {
	ws, err := c.openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close(ctx)

	if svgOut != "" {
		return c.renderLaneGraph(ctx, ws, resource, svgOut)
	}

	var data [][]string
	for _, g := range rows.GroupResources(ws.data.Resources, ws.data.Groups) {
		for _, r := range g.Resources {
			if resource != "" && r.ID != resource {
				continue
			}
			for _, date := range ws.engine.DateKeys() {
				cell := ws.engine.Cell(date, r.ID)
				if len(cell) == 0 {
					continue
				}
				a := ws.engine.Lanes(date)[r.ID]
				data = append(data, []string{date, r.DisplayName(), strconv.Itoa(a.Count), describeLanes(cell, a)})
			}
		}
	}

	if len(data) == 0 {
		printInfo("No bookings in range")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Date", "Resource", "Lanes", "Bookings").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2:
				return StyleNumber
			case col == 0:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	fmt.Println(t.Render())
	return nil
}

// describeLanes lists a cell's bookings by lane: "0: b1 09:00-10:00 · 1: b3 ...".
func describeLanes(cell []*booking.Booking, a lanes.Assignment) string {
	sorted := slices.Clone(cell)
	slices.SortStableFunc(sorted, func(x, y *booking.Booking) int {
		if d := a.Lane(x.ID) - a.Lane(y.ID); d != 0 {
			return d
		}
		return x.Start - y.Start
	})

	parts := make([]string, len(sorted))
	for i, b := range sorted {
		parts[i] = fmt.Sprintf("%d: %s %s-%s", a.Lane(b.ID), b.ID,
			timeaxis.FormatMinutes(b.Start), timeaxis.FormatMinutes(b.End))
	}
	return strings.Join(parts, " · ")
}

// renderLaneGraph writes the overlap graph of one resource on the anchor date.
// Renders are cached by the content of the cell.
func (c *CLI) renderLaneGraph(ctx context.Context, ws *workspace, resource, output string) error {
	_, anchor := ws.engine.View()
	date := booking.DateKey(anchor)

	cell := ws.engine.Cell(date, resource)
	if len(cell) == 0 {
		return fmt.Errorf("no bookings on %s for %s", resource, date)
	}
	bookings := make([]booking.Booking, len(cell))
	for i, b := range cell {
		bookings[i] = *b
	}

	hash, err := cache.HashJSON(bookings)
	if err != nil {
		return fmt.Errorf("hash bookings: %w", err)
	}
	key := ws.keyer.LanesKey(hash, resource)
	hooks := observability.Cache()

	svg, ok, err := ws.cache.Get(ctx, key)
	if err != nil {
		c.Logger.Warn("cache read failed", "err", err)
	}
	if ok {
		hooks.OnCacheHit(ctx, "lanes")
	} else {
		hooks.OnCacheMiss(ctx, "lanes")
		a := ws.engine.Lanes(date)[resource]
		if svg, err = lanes.RenderSVG(ctx, resource, bookings, a); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := ws.cache.Set(ctx, key, svg, ws.cfg.Cache.TTL.Duration); err == nil {
			hooks.OnCacheSet(ctx, "lanes", len(svg))
		}
	}

	if err := writeFile(svg, output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Overlap graph rendered")
	printKeyValue("Resource", resource)
	printKeyValue("Date", date)
	printKeyValue("Lanes", strconv.Itoa(ws.engine.Lanes(date)[resource].Count))
	printFile(output)
	return nil
}
