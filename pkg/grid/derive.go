package grid

import (
	"maps"
	"time"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/index"
	"github.com/matzehuels/schedgrid/pkg/lanes"
	"github.com/matzehuels/schedgrid/pkg/observability"
	"github.com/matzehuels/schedgrid/pkg/rows"
	"github.com/matzehuels/schedgrid/pkg/virtual"
)

// refreshLanes repacks lanes if the data or range changed. Each visible date
// has its own lane cache; caches of dates that left the range are dropped.
func (e *Engine) refreshLanes() {
	at := versions{data: e.ver.data, rng: e.ver.rng}
	if e.lanesOK && e.lanesAt == at {
		return
	}
	start := time.Now()

	visible := make(map[string]bool, len(e.dates))
	assignments := make(map[string]map[string]lanes.Assignment, len(e.dates))
	counts := make(map[string]int)
	var resources, recomputed int

	for _, date := range e.dates {
		visible[date] = true
		c, ok := e.laneCaches[date]
		if !ok {
			c = lanes.NewCache()
			e.laneCaches[date] = c
		}
		byResource, stats := c.Assign(e.data.OnDate(date))
		assignments[date] = byResource
		resources += stats.Resources
		recomputed += stats.Recomputed
		for id, a := range byResource {
			counts[id] = max(counts[id], a.Count)
		}
	}
	for date := range e.laneCaches {
		if !visible[date] {
			delete(e.laneCaches, date)
		}
	}

	e.assignments = assignments
	e.laneCounts = counts
	e.lanesAt, e.lanesOK = at, true

	took := time.Since(start)
	e.logger.Debug("lanes recomputed", "dates", len(e.dates), "resources", resources, "repacked", recomputed, "took", took)
	observability.Engine().OnLanes(resources, recomputed, took)
}

// Lanes returns the lane assignments of one visible date by resource.
func (e *Engine) Lanes(date string) map[string]lanes.Assignment {
	e.refreshLanes()
	return e.assignments[date]
}

// Lane returns the lane of a booking on one resource and date.
func (e *Engine) Lane(date, resourceID, bookingID string) int {
	return e.Lanes(date)[resourceID].Lane(bookingID)
}

// LaneCounts returns each resource's row lane count: the maximum over the
// visible dates. Resources without bookings are absent and count as 1.
func (e *Engine) LaneCounts() map[string]int {
	e.refreshLanes()
	return e.laneCounts
}

// Rows returns the row layout. It is rebuilt when resources, groups or
// collapse flags changed, or when any lane count changed; a commit that
// keeps every lane count leaves the layout and the window untouched.
func (e *Engine) Rows() rows.Layout {
	e.refreshLanes()
	if e.rowsOK && e.rowsAt == e.structure && maps.Equal(e.layoutCounts, e.laneCounts) {
		return e.layout
	}

	start := time.Now()
	groups := rows.GroupResources(e.data.Resources, e.data.Groups)
	e.layout = rows.Build(groups, e.laneCounts, e.cfg.RowOptions()...)
	e.layoutCounts = e.laneCounts
	e.window.SetItems(e.layout.Sizes(), e.layout.Keys())
	e.rowsAt, e.rowsOK = e.structure, true

	took := time.Since(start)
	e.logger.Debug("rows rebuilt", "items", e.layout.Len(), "height", e.layout.TotalHeight, "took", took)
	observability.Engine().OnRows(e.layout.Len(), e.layout.TotalHeight, took)
	return e.layout
}

// Window returns the virtual window over the current row layout.
func (e *Engine) Window() *virtual.Window {
	e.Rows()
	return e.window
}

// Visible returns the row items to render for a scroll position.
func (e *Engine) Visible(scroll, viewport float64) []virtual.Item {
	return e.Window().Visible(scroll, viewport)
}

// ScrollToResource returns the scroll offset that brings a resource row to
// the viewport top. It reports false when the resource has no visible row.
func (e *Engine) ScrollToResource(resourceID string, viewport float64) (float64, bool) {
	layout := e.Rows()
	for i, it := range layout.Items {
		if it.Kind == rows.KindResource && it.ResourceID == resourceID {
			return e.window.ScrollToIndex(i, viewport), true
		}
	}
	return 0, false
}

// Index returns the date × resource index of the visible range.
func (e *Engine) Index() index.Index {
	at := versions{data: e.ver.data, rng: e.ver.rng}
	if e.indexOK && e.indexAt == at {
		return e.ix
	}
	start := time.Now()
	e.ix = index.Build(e.data.Bookings, e.dates)
	e.indexAt, e.indexOK = at, true

	took := time.Since(start)
	e.logger.Debug("index rebuilt", "dates", len(e.dates), "entries", e.ix.Entries(), "took", took)
	observability.Engine().OnIndex(len(e.dates), e.ix.Entries(), took)
	return e.ix
}

// Cell returns the bookings of one grid cell in dataset order.
func (e *Engine) Cell(date, resourceID string) []*booking.Booking {
	return e.Index().At(date, resourceID)
}
