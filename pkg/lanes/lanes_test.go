package lanes

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/schedgrid/pkg/booking"
)

func bk(id string, start, end int) booking.Booking {
	return booking.Booking{ID: id, ResourceID: "ac-1", Start: start, End: end}
}

func randomBookings(r *rand.Rand, n int) []booking.Booking {
	out := make([]booking.Booking, n)
	for i := range out {
		start := 420 + 15*r.IntN(40)
		out[i] = bk(fmt.Sprintf("b%03d", i), start, start+15*(1+r.IntN(8)))
	}
	return out
}

func TestAssignEmpty(t *testing.T) {
	a := Assign(nil)
	if a.Count != 1 {
		t.Errorf("Count = %d, want 1", a.Count)
	}
	if len(a.Lanes) != 0 {
		t.Errorf("Lanes = %v, want empty", a.Lanes)
	}
}

func TestAssign(t *testing.T) {
	tests := []struct {
		name      string
		bookings  []booking.Booking
		wantLanes map[string]int
		wantCount int
	}{
		{
			name:      "single",
			bookings:  []booking.Booking{bk("a", 540, 600)},
			wantLanes: map[string]int{"a": 0},
			wantCount: 1,
		},
		{
			name:      "touching share a lane",
			bookings:  []booking.Booking{bk("a", 540, 600), bk("b", 600, 660)},
			wantLanes: map[string]int{"a": 0, "b": 0},
			wantCount: 1,
		},
		{
			name:      "overlap opens lane",
			bookings:  []booking.Booking{bk("a", 540, 630), bk("b", 600, 660)},
			wantLanes: map[string]int{"a": 0, "b": 1},
			wantCount: 2,
		},
		{
			name: "reuses lowest free lane",
			bookings: []booking.Booking{
				bk("a", 540, 600), bk("b", 540, 720), bk("c", 570, 660), bk("d", 600, 690),
			},
			// sorted: a(540-600) b(540-720) c(570-660) d(600-690)
			wantLanes: map[string]int{"a": 0, "b": 1, "c": 2, "d": 0},
			wantCount: 3,
		},
		{
			name:      "identical intervals order by id",
			bookings:  []booking.Booking{bk("z", 540, 600), bk("m", 540, 600)},
			wantLanes: map[string]int{"m": 0, "z": 1},
			wantCount: 2,
		},
		{
			name:      "zero width inside another",
			bookings:  []booking.Booking{bk("a", 540, 600), bk("p", 570, 570)},
			wantLanes: map[string]int{"a": 0, "p": 1},
			wantCount: 2,
		},
		{
			name:      "negative width packs deterministically",
			bookings:  []booking.Booking{bk("a", 540, 600), bk("neg", 620, 580)},
			wantLanes: map[string]int{"a": 0, "neg": 0},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assign(tt.bookings)
			if diff := cmp.Diff(tt.wantLanes, got.Lanes); diff != "" {
				t.Errorf("Lanes mismatch (-want +got):\n%s", diff)
			}
			if got.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", got.Count, tt.wantCount)
			}
		})
	}
}

func TestAssignMatchesPeakConcurrency(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 200; round++ {
		bs := randomBookings(r, 1+r.IntN(30))
		a := Assign(bs)

		if peak := PeakConcurrency(bs); a.Count != peak {
			t.Fatalf("round %d: Count = %d, peak = %d", round, a.Count, peak)
		}

		for i := range bs {
			for j := i + 1; j < len(bs); j++ {
				if a.Lane(bs[i].ID) == a.Lane(bs[j].ID) && booking.Overlaps(&bs[i], &bs[j]) {
					t.Fatalf("round %d: %s and %s overlap in lane %d", round, bs[i].ID, bs[j].ID, a.Lane(bs[i].ID))
				}
			}
		}
	}
}

func TestAssignOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 100; round++ {
		bs := randomBookings(r, 25)
		want := Assign(bs)

		shuffled := append([]booking.Booking(nil), bs...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Assign(shuffled)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round %d: shuffled assignment differs (-want +got):\n%s", round, diff)
		}
	}
}

func TestAssignAllLinkedResources(t *testing.T) {
	bs := []booking.Booking{
		{ID: "f1", ResourceID: "ac-1", LinkedResourceIDs: []string{"inst-1"}, Start: 540, End: 600},
		{ID: "f2", ResourceID: "ac-2", LinkedResourceIDs: []string{"inst-1"}, Start: 570, End: 630},
		{ID: "g1", ResourceID: "inst-1", Start: 500, End: 560},
	}
	got := AssignAll(bs)

	if got["ac-1"].Count != 1 || got["ac-2"].Count != 1 {
		t.Errorf("aircraft lane counts = %d/%d, want 1/1", got["ac-1"].Count, got["ac-2"].Count)
	}
	inst := got["inst-1"]
	if inst.Count != 2 {
		t.Errorf("instructor lane count = %d, want 2", inst.Count)
	}
	// f2 drops back to lane 0 on inst-1 because g1 has ended by 09:30.
	if inst.Lane("g1") != 0 || inst.Lane("f1") != 1 || inst.Lane("f2") != 0 {
		t.Errorf("instructor lanes = %v", inst.Lanes)
	}

	counts := Counts(got)
	if counts["inst-1"] != 2 {
		t.Errorf("Counts()[inst-1] = %d, want 2", counts["inst-1"])
	}
}

func TestPeakConcurrency(t *testing.T) {
	bs := []booking.Booking{bk("a", 540, 600), bk("b", 600, 660), bk("c", 550, 610), bk("bad", 700, 650)}
	if got := PeakConcurrency(bs); got != 2 {
		t.Errorf("PeakConcurrency() = %d, want 2", got)
	}
	if got := PeakConcurrency(nil); got != 0 {
		t.Errorf("PeakConcurrency(nil) = %d, want 0", got)
	}
}

func TestCacheRecomputesChangedResourcesOnly(t *testing.T) {
	bs := []booking.Booking{
		{ID: "a", ResourceID: "ac-1", Start: 540, End: 600},
		{ID: "b", ResourceID: "ac-2", Start: 540, End: 600},
		{ID: "c", ResourceID: "ac-2", Start: 570, End: 630},
	}
	c := NewCache()

	_, stats := c.Assign(bs)
	if stats.Resources != 2 || stats.Recomputed != 2 {
		t.Fatalf("first pass stats = %+v", stats)
	}

	_, stats = c.Assign(bs)
	if stats.Recomputed != 0 {
		t.Errorf("unchanged pass recomputed %d resources", stats.Recomputed)
	}

	moved := append([]booking.Booking(nil), bs...)
	moved[1].Start, moved[1].End = 660, 720
	got, stats := c.Assign(moved)
	if stats.Recomputed != 1 {
		t.Errorf("one-resource change recomputed %d resources", stats.Recomputed)
	}
	if got["ac-2"].Count != 1 {
		t.Errorf("ac-2 count = %d after move, want 1", got["ac-2"].Count)
	}

	_, _ = c.Assign(moved[:1])
	if c.Len() != 1 {
		t.Errorf("Len() = %d after dropping ac-2, want 1", c.Len())
	}
}

func TestFingerprintOrderIndependent(t *testing.T) {
	a := []booking.Booking{bk("x", 540, 600), bk("y", 600, 660)}
	b := []booking.Booking{bk("y", 600, 660), bk("x", 540, 600)}
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("Fingerprint depends on input order")
	}
	c := []booking.Booking{bk("x", 540, 600), bk("y", 600, 675)}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("Fingerprint ignores end time")
	}
}

func TestToDOT(t *testing.T) {
	bs := []booking.Booking{bk("a", 540, 630), bk("b", 600, 660), bk("c", 660, 720)}
	dot := ToDOT("ac-1", bs, Assign(bs))

	if !strings.Contains(dot, `"a" -- "b"`) {
		t.Error("missing overlap edge a--b")
	}
	if strings.Contains(dot, `"b" -- "c"`) {
		t.Error("touching bookings b and c must not share an edge")
	}
	if !strings.Contains(dot, "lane 1") {
		t.Error("expected a node labelled lane 1")
	}
}
