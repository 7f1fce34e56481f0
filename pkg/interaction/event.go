package interaction

import "github.com/matzehuels/schedgrid/pkg/booking"

// EventKind classifies the outcome of a session.
type EventKind string

// Event kinds.
const (
	EventSelection    EventKind = "selection"
	EventDragCommit   EventKind = "drag-commit"
	EventResizeCommit EventKind = "resize-commit"
	EventCancelled    EventKind = "cancelled"
)

// Event is emitted when a session ends.
//
// For commits, Start/End/ResourceID hold the requested geometry. For a
// selection they repeat the original geometry, and Booking plus Anchor tell
// the host what was clicked and where to place a detail popover. A cancel
// carries the original geometry only.
type Event struct {
	Kind       EventKind       `json:"kind"`
	SessionID  string          `json:"session_id"`
	BookingID  string          `json:"booking_id"`
	Original   Snapshot        `json:"original"`
	Start      int             `json:"start"`
	End        int             `json:"end"`
	ResourceID string          `json:"resource_id"`
	Booking    booking.Booking `json:"booking,omitzero"`
	Anchor     Point           `json:"anchor,omitzero"`
}

// IsCommit reports whether the event requests a mutation.
func (e Event) IsCommit() bool {
	return e.Kind == EventDragCommit || e.Kind == EventResizeCommit
}

// Changed reports whether a commit differs from the original geometry.
func (e Event) Changed() bool {
	return e.IsCommit() &&
		(e.Start != e.Original.Start || e.End != e.Original.End || e.ResourceID != e.Original.ResourceID)
}

// Apply returns a copy of b carrying the committed geometry. Linked
// resources and descriptive fields are kept. Non-commit events return b
// unchanged.
func (e Event) Apply(b booking.Booking) booking.Booking {
	if !e.IsCommit() {
		return b
	}
	b.Start, b.End = e.Start, e.End
	if e.Kind == EventDragCommit && e.ResourceID != "" {
		b.ResourceID = e.ResourceID
	}
	return b
}
