package lanes

import (
	"cmp"
	"slices"

	"github.com/matzehuels/schedgrid/pkg/booking"
)

// Assignment is the lane packing of one resource.
type Assignment struct {
	Lanes map[string]int // booking ID -> lane index
	Count int            // number of lanes, at least 1
}

// Lane returns the lane of a booking, or 0 when the booking is unknown.
func (a Assignment) Lane(bookingID string) int {
	return a.Lanes[bookingID]
}

// Empty is the assignment of a resource without bookings.
func Empty() Assignment {
	return Assignment{Lanes: map[string]int{}, Count: 1}
}

type interval struct {
	id         string
	start, end int
}

func overlaps(a, b interval) bool {
	return a.start < b.end && a.end > b.start
}

// Assign packs the bookings of a single resource into lanes.
// The input slice is not modified.
func Assign(bookings []booking.Booking) Assignment {
	if len(bookings) == 0 {
		return Empty()
	}

	items := make([]interval, len(bookings))
	for i, b := range bookings {
		items[i] = interval{id: b.ID, start: b.Start, end: b.End}
	}
	slices.SortFunc(items, func(a, b interval) int {
		return cmp.Or(
			cmp.Compare(a.start, b.start),
			cmp.Compare(a.end, b.end),
			cmp.Compare(a.id, b.id),
		)
	})

	var lanes [][]interval
	out := Assignment{Lanes: make(map[string]int, len(items))}

	for _, it := range items {
		placed := -1
		for li, members := range lanes {
			if fits(members, it) {
				placed = li
				break
			}
		}
		if placed < 0 {
			lanes = append(lanes, nil)
			placed = len(lanes) - 1
		}
		lanes[placed] = append(lanes[placed], it)
		out.Lanes[it.id] = placed
	}

	out.Count = max(len(lanes), 1)
	return out
}

func fits(members []interval, it interval) bool {
	for _, m := range members {
		if overlaps(m, it) {
			return false
		}
	}
	return true
}

// ByResource groups bookings under every resource they occupy: the primary
// resource and each linked resource.
func ByResource(bookings []booking.Booking) map[string][]booking.Booking {
	out := make(map[string][]booking.Booking)
	for _, b := range bookings {
		for _, id := range b.ResourceIDs() {
			out[id] = append(out[id], b)
		}
	}
	return out
}

// AssignAll packs every resource that carries at least one booking.
func AssignAll(bookings []booking.Booking) map[string]Assignment {
	groups := ByResource(bookings)
	out := make(map[string]Assignment, len(groups))
	for id, bs := range groups {
		out[id] = Assign(bs)
	}
	return out
}

// Counts extracts the lane count of each resource from a set of assignments.
func Counts(assignments map[string]Assignment) map[string]int {
	out := make(map[string]int, len(assignments))
	for id, a := range assignments {
		out[id] = a.Count
	}
	return out
}

// PeakConcurrency returns the maximum number of bookings open at the same
// instant using a sweep over start/end events. Ends sort before starts at
// the same minute, matching the half-open overlap rule. Malformed bookings
// (end <= start) are ignored.
func PeakConcurrency(bookings []booking.Booking) int {
	type event struct {
		at    int
		delta int
	}
	events := make([]event, 0, 2*len(bookings))
	for _, b := range bookings {
		if b.End <= b.Start {
			continue
		}
		events = append(events, event{b.Start, +1}, event{b.End, -1})
	}
	slices.SortFunc(events, func(a, b event) int {
		return cmp.Or(cmp.Compare(a.at, b.at), cmp.Compare(a.delta, b.delta))
	})

	open, peak := 0, 0
	for _, e := range events {
		open += e.delta
		peak = max(peak, open)
	}
	return peak
}
