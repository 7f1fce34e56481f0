package grid

import (
	"sort"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/interaction"
	"github.com/matzehuels/schedgrid/pkg/rows"
	"github.com/matzehuels/schedgrid/pkg/timeaxis"
	"github.com/matzehuels/schedgrid/pkg/virtual"
)

// Snapshot is a serialisable picture of everything a renderer needs for one
// frame.
type Snapshot struct {
	View        booking.View `json:"view"`
	Dates       []string     `json:"dates"`
	Axis        AxisInfo     `json:"axis"`
	Rows        []rows.Item  `json:"rows"`
	TotalHeight float64      `json:"total_height"`

	Scroll   float64        `json:"scroll"`
	Viewport float64        `json:"viewport"`
	Visible  []virtual.Item `json:"visible"`

	Cells []Cell `json:"cells"`

	Phase interaction.Phase  `json:"phase"`
	Ghost *interaction.Ghost `json:"ghost,omitempty"`
}

// AxisInfo describes the time axis of one day column.
type AxisInfo struct {
	DayStart  int     `json:"day_start"`
	DayEnd    int     `json:"day_end"`
	HourWidth float64 `json:"hour_width"`
	Width     float64 `json:"width"`
}

// Cell is one non-empty date × resource cell with positioned bookings.
type Cell struct {
	Date       string      `json:"date"`
	ResourceID string      `json:"resource_id"`
	Lanes      int         `json:"lanes"`
	Bookings   []Placement `json:"bookings"`
}

// Placement is a booking positioned inside its row.
type Placement struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Type   string  `json:"type,omitempty"`
	Status string  `json:"status,omitempty"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Lane   int     `json:"lane"`
	X      float64 `json:"x"`
	Width  float64 `json:"width"`
	Linked bool    `json:"linked,omitempty"` // shown on a linked, not the primary, resource
}

// Snapshot computes a snapshot for a scroll position. Only cells of
// visible resource rows are included.
func (e *Engine) Snapshot(scroll, viewport float64) Snapshot {
	axis := e.Axis()
	layout := e.Rows()
	visible := e.Visible(scroll, viewport)
	ix := e.Index()

	snap := Snapshot{
		View:  e.view,
		Dates: e.dates,
		Axis: AxisInfo{
			DayStart:  axis.DayStart(),
			DayEnd:    axis.DayEnd(),
			HourWidth: axis.HourWidth,
			Width:     axis.Width(),
		},
		Rows:        layout.Items,
		TotalHeight: layout.TotalHeight,
		Scroll:      scroll,
		Viewport:    viewport,
		Visible:     visible,
		Cells:       []Cell{},
		Phase:       e.Phase(),
	}
	if g, ok := e.Ghost(); ok {
		snap.Ghost = &g
	}

	for _, it := range visible {
		row := layout.Items[it.Index]
		if row.Kind != rows.KindResource {
			continue
		}
		for _, date := range e.dates {
			bs := ix.At(date, row.ResourceID)
			if len(bs) == 0 {
				continue
			}
			a := e.Lanes(date)[row.ResourceID]
			cell := Cell{Date: date, ResourceID: row.ResourceID, Lanes: max(a.Count, 1)}
			for _, b := range bs {
				cell.Bookings = append(cell.Bookings, place(axis, b, a.Lane(b.ID), row.ResourceID))
			}
			snap.Cells = append(snap.Cells, cell)
		}
	}
	sort.SliceStable(snap.Cells, func(i, j int) bool {
		return snap.Cells[i].Date < snap.Cells[j].Date
	})
	return snap
}

func place(axis timeaxis.Axis, b *booking.Booking, lane int, resourceID string) Placement {
	x := axis.MinutesToPosition(b.Start)
	return Placement{
		ID:     b.ID,
		Title:  b.Title,
		Type:   b.Type,
		Status: b.Status,
		Start:  b.Start,
		End:    b.End,
		Lane:   lane,
		X:      x,
		Width:  max(axis.MinutesToPosition(b.End)-x, 0),
		Linked: b.ResourceID != resourceID,
	}
}

func formatRange(b booking.Booking) string {
	return timeaxis.FormatMinutes(b.Start) + "-" + timeaxis.FormatMinutes(b.End)
}
