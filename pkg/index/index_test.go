package index

import (
	"fmt"
	"testing"
	"time"

	"github.com/matzehuels/schedgrid/pkg/booking"
)

func weekOf(key string) []string {
	t, _ := booking.ParseDateKey(key)
	return booking.DateKeys(booking.ViewWeek, t)
}

func TestBuildLinkedBooking(t *testing.T) {
	bookings := []booking.Booking{
		{ID: "f1", Date: "2026-02-16", ResourceID: "ac-1", LinkedResourceIDs: []string{"inst-1"}, Start: 540, End: 600},
		{ID: "old", Date: "2026-02-10", ResourceID: "ac-1", Start: 540, End: 600},
	}
	ix := Build(bookings, weekOf("2026-02-16"))

	onAircraft := ix.At("2026-02-16", "ac-1")
	onInstructor := ix.At("2026-02-16", "inst-1")
	if len(onAircraft) != 1 || len(onInstructor) != 1 {
		t.Fatalf("entries = %d/%d, want 1/1", len(onAircraft), len(onInstructor))
	}
	if onAircraft[0] != onInstructor[0] {
		t.Error("linked entries must reference the same booking")
	}
	if onAircraft[0] != &bookings[0] {
		t.Error("entries must reference the input element")
	}
	if got := ix.At("2026-02-10", "ac-1"); len(got) != 0 {
		t.Errorf("booking outside the week indexed: %v", got)
	}
	if ix.Entries() != 2 {
		t.Errorf("Entries() = %d, want 2", ix.Entries())
	}
}

func TestBuildSkipsUndated(t *testing.T) {
	bookings := []booking.Booking{
		{ID: "nodate", ResourceID: "ac-1"},
		{ID: "dated", ResourceID: "ac-1", Date: "2026-02-17"},
	}
	ix := Build(bookings, weekOf("2026-02-16"))
	if len(ix) != 1 || len(ix.At("2026-02-17", "ac-1")) != 1 {
		t.Errorf("index = %v", ix.Counts())
	}
}

func TestBuildInsertionOrder(t *testing.T) {
	bookings := []booking.Booking{
		{ID: "late", Date: "2026-02-16", ResourceID: "ac-1", Start: 900},
		{ID: "early", Date: "2026-02-16", ResourceID: "ac-1", Start: 480},
		{ID: "mid", Date: "2026-02-16", ResourceID: "inst-1", LinkedResourceIDs: []string{"ac-1"}, Start: 600},
	}
	ix := Build(bookings, []string{"2026-02-16"})

	var got []string
	for _, b := range ix.At("2026-02-16", "ac-1") {
		got = append(got, b.ID)
	}
	want := []string{"late", "early", "mid"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestBuildDuplicateLinks(t *testing.T) {
	bookings := []booking.Booking{
		{ID: "f1", Date: "2026-02-16", ResourceID: "ac-1", LinkedResourceIDs: []string{"ac-1", "inst-1", "inst-1"}},
	}
	ix := Build(bookings, []string{"2026-02-16"})
	if ix.Entries() != 2 {
		t.Errorf("Entries() = %d, want 2 (duplicates collapsed)", ix.Entries())
	}
}

func TestBuildEmptyRange(t *testing.T) {
	bookings := []booking.Booking{{ID: "f1", Date: "2026-02-16", ResourceID: "ac-1"}}
	if ix := Build(bookings, nil); len(ix) != 0 {
		t.Errorf("empty range produced %d cells", len(ix))
	}
}

func syntheticBookings(n int) ([]booking.Booking, []string) {
	start := time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)
	keys := booking.DateKeys(booking.ViewWeek, start)
	out := make([]booking.Booking, n)
	for i := range out {
		out[i] = booking.Booking{
			ID:                fmt.Sprintf("b%05d", i),
			ResourceID:        fmt.Sprintf("ac-%d", i%40),
			LinkedResourceIDs: []string{fmt.Sprintf("inst-%d", i%25)},
			Date:              keys[i%len(keys)],
			Start:             420 + (i%48)*15,
			End:               480 + (i%48)*15,
		}
	}
	return out, keys
}

func TestBuildScale(t *testing.T) {
	bookings, keys := syntheticBookings(5000)
	ix := Build(bookings, keys)
	if ix.Entries() != 10000 {
		t.Errorf("Entries() = %d, want 10000", ix.Entries())
	}
}

func BenchmarkBuild5000(b *testing.B) {
	bookings, keys := syntheticBookings(5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Build(bookings, keys)
	}
}
