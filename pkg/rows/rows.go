package rows

import (
	"cmp"
	"slices"
	"sort"

	"github.com/matzehuels/schedgrid/pkg/booking"
)

// Default geometry.
const (
	DefaultHeaderHeight = 28.0
	DefaultRowHeight    = 40.0
)

// UngroupedID is the synthetic group collecting resources without a known group.
const UngroupedID = "_ungrouped"

// Kind distinguishes the two item types of a layout.
type Kind string

// Item kinds.
const (
	KindHeader   Kind = "group-header"
	KindResource Kind = "resource-row"
)

// Group is an ordered group of resources as fed to [Build].
type Group struct {
	ID        string
	Label     string
	Collapsed bool
	Resources []booking.Resource
}

// Item is one positioned header or resource row.
type Item struct {
	Kind       Kind    `json:"kind"`
	Key        string  `json:"key"`
	GroupID    string  `json:"group_id"`
	ResourceID string  `json:"resource_id,omitempty"`
	Label      string  `json:"label"`
	Lanes      int     `json:"lanes,omitempty"`
	Offset     float64 `json:"offset"`
	Height     float64 `json:"height"`
}

// Bottom returns the offset just past the item.
func (it Item) Bottom() float64 { return it.Offset + it.Height }

// Layout is the flattened, positioned item list.
type Layout struct {
	Items       []Item  `json:"items"`
	TotalHeight float64 `json:"total_height"`

	byResource map[string]int
}

type config struct {
	headerHeight float64
	rowHeight    float64
}

// Option configures [Build].
type Option func(*config)

// WithHeaderHeight sets the height of group header items.
func WithHeaderHeight(h float64) Option {
	return func(c *config) {
		if h >= 0 {
			c.headerHeight = h
		}
	}
}

// WithRowHeight sets the height of one lane of a resource row.
func WithRowHeight(h float64) Option {
	return func(c *config) {
		if h >= 0 {
			c.rowHeight = h
		}
	}
}

// Build lays out groups in the given order. laneCounts maps resource IDs to
// lane counts; missing or non-positive counts are treated as 1.
func Build(groups []Group, laneCounts map[string]int, opts ...Option) Layout {
	cfg := config{headerHeight: DefaultHeaderHeight, rowHeight: DefaultRowHeight}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := Layout{byResource: make(map[string]int)}
	var y float64

	for _, g := range groups {
		l.Items = append(l.Items, Item{
			Kind:    KindHeader,
			Key:     "group:" + g.ID,
			GroupID: g.ID,
			Label:   g.Label,
			Offset:  y,
			Height:  cfg.headerHeight,
		})
		y += cfg.headerHeight

		if g.Collapsed {
			continue
		}

		for _, r := range g.Resources {
			n := max(laneCounts[r.ID], 1)
			h := float64(n) * cfg.rowHeight
			l.byResource[r.ID] = len(l.Items)
			l.Items = append(l.Items, Item{
				Kind:       KindResource,
				Key:        "resource:" + r.ID,
				GroupID:    g.ID,
				ResourceID: r.ID,
				Label:      r.DisplayName(),
				Lanes:      n,
				Offset:     y,
				Height:     h,
			})
			y += h
		}
	}

	l.TotalHeight = y
	return l
}

// Len returns the number of items.
func (l Layout) Len() int { return len(l.Items) }

// Sizes returns the item heights in order, the input the virtual window needs.
func (l Layout) Sizes() []float64 {
	out := make([]float64, len(l.Items))
	for i, it := range l.Items {
		out[i] = it.Height
	}
	return out
}

// Keys returns the stable item keys in order.
func (l Layout) Keys() []string {
	out := make([]string, len(l.Items))
	for i, it := range l.Items {
		out[i] = it.Key
	}
	return out
}

// IndexAt returns the index of the item covering content offset y, or -1
// when y lies above the first item or at/after the total height.
func (l Layout) IndexAt(y float64) int {
	if y < 0 || y >= l.TotalHeight || len(l.Items) == 0 {
		return -1
	}
	i := sort.Search(len(l.Items), func(i int) bool {
		return l.Items[i].Bottom() > y
	})
	if i >= len(l.Items) {
		return -1
	}
	return i
}

// At returns the item covering content offset y.
func (l Layout) At(y float64) (Item, bool) {
	i := l.IndexAt(y)
	if i < 0 {
		return Item{}, false
	}
	return l.Items[i], true
}

// ResourceAt returns the resource whose row covers y. Headers and positions
// outside the layout report false.
func (l Layout) ResourceAt(y float64) (string, bool) {
	it, ok := l.At(y)
	if !ok || it.Kind != KindResource {
		return "", false
	}
	return it.ResourceID, true
}

// Row returns the row item of a visible resource. Resources in collapsed
// groups are not visible.
func (l Layout) Row(resourceID string) (Item, bool) {
	i, ok := l.byResource[resourceID]
	if !ok {
		return Item{}, false
	}
	return l.Items[i], true
}

// GroupResources builds the ordered group list from host definitions.
// Groups sort by (order, label, id) and resources within a group by
// (order, name, id). Resources naming no group, or an unknown one, are
// collected into a trailing "Ungrouped" group that is emitted only when it
// has members.
func GroupResources(resources []booking.Resource, groups []booking.Group) []Group {
	sortedGroups := slices.Clone(groups)
	slices.SortFunc(sortedGroups, func(a, b booking.Group) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), cmp.Compare(a.Label, b.Label), cmp.Compare(a.ID, b.ID))
	})

	members := make(map[string][]booking.Resource, len(groups))
	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g.ID] = true
	}
	for _, r := range resources {
		gid := r.GroupID
		if !known[gid] {
			gid = UngroupedID
		}
		members[gid] = append(members[gid], r)
	}

	byOrder := func(a, b booking.Resource) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), cmp.Compare(a.DisplayName(), b.DisplayName()), cmp.Compare(a.ID, b.ID))
	}

	out := make([]Group, 0, len(sortedGroups)+1)
	for _, g := range sortedGroups {
		rs := members[g.ID]
		slices.SortFunc(rs, byOrder)
		out = append(out, Group{ID: g.ID, Label: g.Label, Collapsed: g.Collapsed, Resources: rs})
	}
	if rs := members[UngroupedID]; len(rs) > 0 {
		slices.SortFunc(rs, byOrder)
		out = append(out, Group{ID: UngroupedID, Label: "Ungrouped", Resources: rs})
	}
	return out
}
