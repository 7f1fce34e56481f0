package virtual

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func indices(items []Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Index
	}
	return out
}

func TestEmpty(t *testing.T) {
	w := New(WithOverscan(5), WithOverscanPx(100))
	if got := w.Visible(0, 600); got != nil {
		t.Errorf("Visible() on empty window = %v, want nil", got)
	}
	if w.TotalSize() != 0 {
		t.Errorf("TotalSize() = %v, want 0", w.TotalSize())
	}
	if got := w.ScrollToIndex(3, 600); got != 0 {
		t.Errorf("ScrollToIndex() on empty window = %v, want 0", got)
	}
	if w.IndexAt(10) != -1 {
		t.Error("IndexAt() on empty window should be -1")
	}
}

func TestZeroViewport(t *testing.T) {
	w := New(WithOverscan(2))
	w.SetItems([]float64{10, 10, 10}, nil)
	if got := w.Visible(0, 0); len(got) != 0 {
		t.Errorf("Visible() with zero viewport = %v, want empty", indices(got))
	}
	if got := w.Visible(0, -5); len(got) != 0 {
		t.Errorf("Visible() with negative viewport = %v, want empty", indices(got))
	}
}

func TestVisibleHeterogeneous(t *testing.T) {
	// headers of 20, rows of 40 and 120
	sizes := []float64{20, 40, 120, 40, 20, 40, 40}
	// starts:           0, 20, 60, 180, 220, 240, 280; total 320

	tests := []struct {
		name     string
		opts     []Option
		scroll   float64
		viewport float64
		want     []int
	}{
		{"top", nil, 0, 50, []int{0, 1}},
		{"boundary excludes touching item", nil, 20, 40, []int{1}},
		{"inside tall row", nil, 100, 10, []int{2}},
		{"bottom", nil, 250, 100, []int{5, 6}},
		{"past end", nil, 400, 100, nil},
		{"overscan count", []Option{WithOverscan(1)}, 100, 10, []int{1, 2, 3}},
		{"overscan count clamps", []Option{WithOverscan(3)}, 0, 10, []int{0, 1, 2, 3}},
		{"overscan px", []Option{WithOverscanPx(50)}, 100, 10, []int{1, 2}},
		{"scroll margin shifts items", []Option{WithScrollMargin(100)}, 0, 60, nil},
		{"scroll margin reaches first item", []Option{WithScrollMargin(100)}, 70, 60, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(tt.opts...)
			w.SetItems(sizes, nil)
			got := indices(w.Visible(tt.scroll, tt.viewport))
			if len(got) == 0 {
				got = nil
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Visible(%v, %v) mismatch (-want +got):\n%s", tt.scroll, tt.viewport, diff)
			}
		})
	}
}

func TestVisibleAnnotations(t *testing.T) {
	w := New(WithScrollMargin(30))
	w.SetItems([]float64{20, 40}, []string{"group:a", "resource:x"})

	got := w.Visible(0, 1000)
	want := []Item{
		{Index: 0, Key: "group:a", Start: 30, Size: 20},
		{Index: 1, Key: "resource:x", Start: 50, Size: 40},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Visible() mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalSizeMatchesSum(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	w := New()
	for round := 0; round < 50; round++ {
		n := r.IntN(200)
		sizes := make([]float64, n)
		var sum float64
		for i := range sizes {
			sizes[i] = float64(20 * (1 + r.IntN(5)))
			sum += sizes[i]
		}
		w.SetItems(sizes, nil)
		if w.TotalSize() != sum {
			t.Fatalf("round %d: TotalSize() = %v, want %v", round, w.TotalSize(), sum)
		}
	}
}

func TestResizeRebuildsOffsets(t *testing.T) {
	w := New()
	w.SetItems([]float64{40, 40, 40, 40}, nil)
	w.Resize(1, 120)

	if w.TotalSize() != 240 {
		t.Errorf("TotalSize() = %v, want 240", w.TotalSize())
	}
	if w.Start(3) != 200 {
		t.Errorf("Start(3) = %v, want 200", w.Start(3))
	}
	w.Resize(9, 10)
	if w.TotalSize() != 240 {
		t.Error("out-of-range Resize changed the window")
	}
}

func TestScrollToIndex(t *testing.T) {
	w := New(WithScrollMargin(10))
	w.SetItems([]float64{20, 40, 120, 40, 20, 40, 40}, nil)

	tests := []struct {
		index    int
		viewport float64
		want     float64
	}{
		{0, 100, 10},
		{2, 100, 70},
		{5, 100, 230}, // capped: margin+total-viewport = 10+320-100
		{-4, 100, 10}, // clamps to first item
		{99, 1000, 0}, // content shorter than viewport
		{3, 50, 190},
	}

	for _, tt := range tests {
		if got := w.ScrollToIndex(tt.index, tt.viewport); got != tt.want {
			t.Errorf("ScrollToIndex(%d, %v) = %v, want %v", tt.index, tt.viewport, got, tt.want)
		}
	}

	// The target item is the first visible item after scrolling.
	off := w.ScrollToIndex(3, 50)
	if got := w.Visible(off, 50); len(got) == 0 || got[0].Index != 3 {
		t.Errorf("after ScrollToIndex(3), first visible = %v", indices(got))
	}
}

func TestIndexAtAndClamp(t *testing.T) {
	w := New()
	w.SetItems([]float64{20, 40, 0, 40}, nil)

	tests := map[float64]int{-1: -1, 0: 0, 19: 0, 20: 1, 59: 1, 60: 3, 99: 3, 100: -1}
	for off, want := range tests {
		if got := w.IndexAt(off); got != want {
			t.Errorf("IndexAt(%v) = %d, want %d", off, got, want)
		}
	}

	if got := w.ClampScroll(500, 50); got != 50 {
		t.Errorf("ClampScroll(500) = %v, want 50", got)
	}
	if got := w.ClampScroll(-5, 50); got != 0 {
		t.Errorf("ClampScroll(-5) = %v, want 0", got)
	}
}
