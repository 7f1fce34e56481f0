// Package booking defines the data the scheduling grid consumes: bookings,
// resources, and resource groups, plus the date-key helpers used to select
// the visible range of a day, week, or month view.
//
// The engine treats a [Dataset] as an immutable snapshot. Nothing in this
// module edits a [Booking] in place; a commit produces a new snapshot via
// [Dataset.WithBooking] and the host swaps it in.
//
// # Times
//
// Start and End are minutes since midnight of the booking's date key. A
// booking with End <= Start is malformed but still valid input; the layout
// algorithms pack it deterministically instead of rejecting it.
//
// # Serialization
//
// Datasets load from JSON or TOML files ([ReadFile]) and carry bson tags so
// the MongoDB source can decode documents directly.
package booking
