// Package lanes packs the bookings of one resource into vertical lanes so
// that no two bookings sharing a lane overlap in time.
//
// # Algorithm
//
// Bookings are sorted by (start, end, id) and placed greedily: each booking
// goes into the lowest-indexed lane whose members it does not overlap,
// opening a new lane when none fits. Overlap is half-open, so bookings that
// merely touch share a lane. On interval graphs this greedy colouring is
// optimal; the lane count equals the peak number of simultaneously open
// bookings ([PeakConcurrency]).
//
// Sorting first makes the result independent of input order: any
// permutation of the same bookings yields the same booking→lane map.
//
// Malformed bookings (end <= start) are packed like any other interval.
// A zero-width booking overlaps only bookings that strictly contain its
// instant.
//
// # Per-resource scope
//
// Lanes are a property of one resource row. A booking linked to several
// resources is packed independently in each of their rows and may land in a
// different lane in each.
//
// # Memoization
//
// [Cache] fingerprints each resource's booking set and only repacks the
// resources whose fingerprint changed since the previous call.
package lanes
