// Package index builds the date × resource lookup used to render grid cells.
//
// Every booking whose date key lies in the visible range is listed under
// "date:resource" for its primary resource and for each linked resource.
// All entries point at the same element of the input slice, so a linked
// booking is one object reachable from several cells. Lists keep input
// order.
package index

import (
	"github.com/matzehuels/schedgrid/pkg/booking"
)

// Index maps "date:resource" keys to bookings in insertion order.
type Index map[string][]*booking.Booking

// Key returns the index key of a cell.
func Key(dateKey, resourceID string) string {
	return dateKey + ":" + resourceID
}

// Build indexes bookings against the valid date keys. Bookings without a
// date, or dated outside dateKeys, are skipped. The returned index
// references elements of bookings; the slice must not be modified while the
// index is in use.
func Build(bookings []booking.Booking, dateKeys []string) Index {
	valid := booking.KeySet(dateKeys)
	ix := make(Index, len(bookings))

	for i := range bookings {
		b := &bookings[i]
		if b.Date == "" {
			continue
		}
		if _, ok := valid[b.Date]; !ok {
			continue
		}
		ix.add(b.Date, b.ResourceID, b)
		for _, id := range b.LinkedResourceIDs {
			if id == "" || id == b.ResourceID {
				continue
			}
			ix.add(b.Date, id, b)
		}
	}
	return ix
}

func (ix Index) add(date, resourceID string, b *booking.Booking) {
	k := Key(date, resourceID)
	list := ix[k]
	// a repeated linked id must not list the booking twice in one cell
	if n := len(list); n > 0 && list[n-1] == b {
		return
	}
	ix[k] = append(list, b)
}

// At returns the bookings of one cell.
func (ix Index) At(dateKey, resourceID string) []*booking.Booking {
	return ix[Key(dateKey, resourceID)]
}

// Entries returns the total number of (cell, booking) entries.
func (ix Index) Entries() int {
	n := 0
	for _, list := range ix {
		n += len(list)
	}
	return n
}

// Counts returns the number of bookings per cell.
func (ix Index) Counts() map[string]int {
	out := make(map[string]int, len(ix))
	for k, list := range ix {
		out[k] = len(list)
	}
	return out
}
