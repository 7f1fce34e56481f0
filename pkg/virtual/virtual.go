// Package virtual selects the slice of a long, variable-height item list that
// intersects a scrolling viewport, so only those items need rendering.
//
// Item offsets are prefix sums over the item sizes. They are rebuilt from
// scratch whenever any size changes ([Window.SetItems], [Window.Resize]);
// nothing is patched incrementally, which keeps offsets exact after a lane
// count grows in the middle of the list.
//
// Coordinates are scroll coordinates of the scroll container. When fixed
// content (a toolbar, a date header) precedes the virtualized region inside
// the same container, its height is the scroll margin and every item start
// is shifted by it.
package virtual

import (
	"sort"
	"strconv"
)

// DefaultOverscan is the overscan count interactive hosts use. [New]
// itself applies no overscan unless asked.
const DefaultOverscan = 3

// Item is one visible entry of the window.
type Item struct {
	Index int     `json:"index"`
	Key   string  `json:"key"`
	Start float64 `json:"start"` // absolute top in scroll coordinates
	Size  float64 `json:"size"`
}

// End returns the absolute bottom of the item.
func (it Item) End() float64 { return it.Start + it.Size }

type config struct {
	overscan     int
	overscanPx   float64
	scrollMargin float64
}

// Option configures a [Window].
type Option func(*config)

// WithOverscan renders n extra items beyond each edge of the viewport.
func WithOverscan(n int) Option {
	return func(c *config) { c.overscan = max(n, 0) }
}

// WithOverscanPx widens the viewport by px on each side before intersecting.
func WithOverscanPx(px float64) Option {
	return func(c *config) { c.overscanPx = max(px, 0) }
}

// WithScrollMargin sets the height of fixed content preceding the items.
func WithScrollMargin(px float64) Option {
	return func(c *config) { c.scrollMargin = max(px, 0) }
}

// Window holds item sizes and their prefix sums.
// A Window is not safe for concurrent use.
type Window struct {
	cfg    config
	sizes  []float64
	keys   []string
	starts []float64 // len(sizes)+1; starts[i] is relative to the margin
}

// New returns an empty window.
func New(opts ...Option) *Window {
	w := &Window{starts: []float64{0}}
	for _, opt := range opts {
		opt(&w.cfg)
	}
	return w
}

// SetItems replaces the item list. keys may be nil, in which case the index
// is used as the key. Negative sizes count as zero.
func (w *Window) SetItems(sizes []float64, keys []string) {
	w.sizes = append(w.sizes[:0], sizes...)
	w.keys = w.keys[:0]
	for i := range sizes {
		if i < len(keys) {
			w.keys = append(w.keys, keys[i])
		} else {
			w.keys = append(w.keys, strconv.Itoa(i))
		}
	}
	w.rebuild()
}

// Resize changes the size of item i and rebuilds all offsets.
func (w *Window) Resize(i int, size float64) {
	if i < 0 || i >= len(w.sizes) {
		return
	}
	w.sizes[i] = size
	w.rebuild()
}

func (w *Window) rebuild() {
	w.starts = make([]float64, len(w.sizes)+1)
	var acc float64
	for i, s := range w.sizes {
		w.starts[i] = acc
		acc += max(s, 0)
	}
	w.starts[len(w.sizes)] = acc
}

// Len returns the number of items.
func (w *Window) Len() int { return len(w.sizes) }

// TotalSize returns the sum of all item sizes, excluding the scroll margin.
func (w *Window) TotalSize() float64 { return w.starts[len(w.sizes)] }

// ScrollMargin returns the configured scroll margin.
func (w *Window) ScrollMargin() float64 { return w.cfg.scrollMargin }

// Start returns the absolute top of item i. Out-of-range indices clamp.
func (w *Window) Start(i int) float64 {
	i = min(max(i, 0), len(w.sizes))
	return w.cfg.scrollMargin + w.starts[i]
}

func (w *Window) item(i int) Item {
	return Item{
		Index: i,
		Key:   w.keys[i],
		Start: w.cfg.scrollMargin + w.starts[i],
		Size:  max(w.sizes[i], 0),
	}
}

// Range returns the inclusive index range [first, last] of the items to
// render, or ok=false when nothing is visible. An item is selected when
// [start, end) intersects [scroll-overscanPx, scroll+viewport+overscanPx);
// the range is then widened by the overscan count.
func (w *Window) Range(scrollOffset, viewport float64) (first, last int, ok bool) {
	n := len(w.sizes)
	if n == 0 || viewport <= 0 {
		return 0, 0, false
	}

	lo := scrollOffset - w.cfg.overscanPx
	hi := scrollOffset + viewport + w.cfg.overscanPx
	margin := w.cfg.scrollMargin

	first = sort.Search(n, func(i int) bool {
		return margin+w.starts[i+1] > lo
	})
	last = sort.Search(n, func(i int) bool {
		return margin+w.starts[i] >= hi
	}) - 1
	if first > last {
		return 0, 0, false
	}

	first = max(first-w.cfg.overscan, 0)
	last = min(last+w.cfg.overscan, n-1)
	return first, last, true
}

// Visible returns the items to render for the given scroll state.
func (w *Window) Visible(scrollOffset, viewport float64) []Item {
	first, last, ok := w.Range(scrollOffset, viewport)
	if !ok {
		return nil
	}
	out := make([]Item, 0, last-first+1)
	for i := first; i <= last; i++ {
		out = append(out, w.item(i))
	}
	return out
}

// ScrollToIndex returns the scroll offset that aligns the top of item i with
// the top of the viewport, limited to the scrollable range so the content
// never scrolls past its end.
func (w *Window) ScrollToIndex(i int, viewport float64) float64 {
	if len(w.sizes) == 0 {
		return 0
	}
	i = min(max(i, 0), len(w.sizes)-1)
	target := w.Start(i)
	return min(target, w.MaxScroll(viewport))
}

// MaxScroll returns the largest meaningful scroll offset for a viewport.
func (w *Window) MaxScroll(viewport float64) float64 {
	return max(w.cfg.scrollMargin+w.TotalSize()-max(viewport, 0), 0)
}

// ClampScroll limits offset to [0, MaxScroll(viewport)].
func (w *Window) ClampScroll(offset, viewport float64) float64 {
	return min(max(offset, 0), w.MaxScroll(viewport))
}

// IndexAt returns the item whose span covers the absolute offset, or -1.
func (w *Window) IndexAt(offset float64) int {
	rel := offset - w.cfg.scrollMargin
	n := len(w.sizes)
	if n == 0 || rel < 0 || rel >= w.starts[n] {
		return -1
	}
	return sort.Search(n, func(i int) bool { return w.starts[i+1] > rel })
}
