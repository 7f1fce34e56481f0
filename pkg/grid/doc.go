// Package grid is the root of the scheduling grid engine.
//
// An [Engine] owns one immutable [booking.Dataset] snapshot, the visible
// date range, and the single pointer session. It derives lane assignments,
// the row layout, the virtual window, and the date × resource index on
// demand and memoizes each one against explicit version counters:
//
//	data       bumped when bookings change (SetDataset, applied commits)
//	range      bumped when the visible dates change
//	structure  bumped when resources, groups or collapse flags change
//
// Lane assignments additionally go through a per-date [lanes.Cache], so a
// commit that touches one resource repacks only that resource. The row
// layout is rebuilt only when lane counts or collapse state actually
// changed, and the virtual window only when the layout was rebuilt.
//
// # Coordinates
//
// Pointer X is measured from the left edge of a day column. Pointer Y is
// measured from the top of the first row item; hosts that place fixed
// content above the rows subtract the window's scroll margin first.
//
// # Commits
//
// By default the engine applies commits itself by swapping in a new
// dataset that carries the moved or resized booking. Hosts that validate
// commits against their own rules disable this with [WithAutoApply] and
// call [Engine.Apply] for the commits they accept.
//
// An Engine is not safe for concurrent use. It is meant to be driven from
// one goroutine, such as a UI loop, or guarded by a mutex.
package grid
