package lanes

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/schedgrid/pkg/booking"
)

// Stats reports the work done by one [Cache.Assign] call.
type Stats struct {
	Resources  int // resources with at least one booking
	Recomputed int // resources whose lanes were repacked
}

type entry struct {
	fingerprint uint64
	assignment  Assignment
}

// Cache memoizes lane assignments per resource, keyed by a fingerprint of
// that resource's booking set. A Cache is not safe for concurrent use.
type Cache struct {
	entries map[string]entry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Assign returns the assignments of every resource that carries bookings,
// repacking only the resources whose booking set changed since the last call.
// Resources that no longer carry bookings are evicted.
func (c *Cache) Assign(bookings []booking.Booking) (map[string]Assignment, Stats) {
	groups := ByResource(bookings)
	out := make(map[string]Assignment, len(groups))
	stats := Stats{Resources: len(groups)}

	for id, bs := range groups {
		fp := Fingerprint(bs)
		if e, ok := c.entries[id]; ok && e.fingerprint == fp {
			out[id] = e.assignment
			continue
		}
		a := Assign(bs)
		c.entries[id] = entry{fingerprint: fp, assignment: a}
		out[id] = a
		stats.Recomputed++
	}

	for id := range c.entries {
		if _, ok := groups[id]; !ok {
			delete(c.entries, id)
		}
	}
	return out, stats
}

// Len returns the number of cached resources.
func (c *Cache) Len() int { return len(c.entries) }

// Fingerprint hashes the (id, start, end) triples of a booking set. The
// result does not depend on input order.
func Fingerprint(bookings []booking.Booking) uint64 {
	items := make([]interval, len(bookings))
	for i, b := range bookings {
		items[i] = interval{id: b.ID, start: b.Start, end: b.End}
	}
	slices.SortFunc(items, func(a, b interval) int {
		return cmp.Or(
			cmp.Compare(a.id, b.id),
			cmp.Compare(a.start, b.start),
			cmp.Compare(a.end, b.end),
		)
	})

	d := xxhash.New()
	buf := make([]byte, 0, 64)
	for _, it := range items {
		buf = buf[:0]
		buf = append(buf, it.id...)
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, int64(it.start), 10)
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, int64(it.end), 10)
		buf = append(buf, 0)
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}
