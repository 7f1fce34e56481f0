package lanes

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/timeaxis"
)

var lanePalette = []string{
	"#8ecae6", "#ffb703", "#90be6d", "#f28482", "#cdb4db", "#f6bd60", "#84a59d", "#bde0fe",
}

// ToDOT returns the overlap graph of one resource's bookings as Graphviz DOT.
// Each booking is a node filled with its lane colour; an edge joins every
// overlapping pair. Bookings sharing a colour never share an edge.
func ToDOT(resourceID string, bookings []booking.Booking, a Assignment) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", resourceID)
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=\"filled,rounded\", shape=box];\n\n")

	for _, b := range bookings {
		lane := a.Lane(b.ID)
		label := fmt.Sprintf("%s\\n%s-%s\\nlane %d", b.ID,
			timeaxis.FormatMinutes(b.Start), timeaxis.FormatMinutes(b.End), lane)
		fmt.Fprintf(&buf, "  %q [label=\"%s\", fillcolor=%q];\n", b.ID, label, lanePalette[lane%len(lanePalette)])
	}

	buf.WriteString("\n")
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			if booking.Overlaps(&bookings[i], &bookings[j]) {
				fmt.Fprintf(&buf, "  %q -- %q;\n", bookings[i].ID, bookings[j].ID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders [ToDOT] output to SVG with Graphviz.
func RenderSVG(ctx context.Context, resourceID string, bookings []booking.Booking, a Assignment) ([]byte, error) {
	dot := ToDOT(resourceID, bookings, a)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
