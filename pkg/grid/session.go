package grid

import (
	"time"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/errors"
	"github.com/matzehuels/schedgrid/pkg/interaction"
	"github.com/matzehuels/schedgrid/pkg/observability"
)

// Phase returns the phase of the pointer session.
func (e *Engine) Phase() interaction.Phase { return e.machine.Phase() }

// Session returns the active pointer session.
func (e *Engine) Session() (interaction.Session, bool) { return e.machine.Session() }

// Ghost returns the live preview of an active drag or resize.
func (e *Engine) Ghost() (interaction.Ghost, bool) { return e.machine.Ghost() }

// PointerDown starts a session on a booking of the current snapshot. It
// fails with BOOKING_NOT_FOUND for unknown IDs and SESSION_ACTIVE while
// another session runs.
func (e *Engine) PointerDown(bookingID string, edge interaction.Edge, p interaction.Point) (interaction.Session, error) {
	b, ok := e.data.Find(bookingID)
	if !ok {
		return interaction.Session{}, errors.New(errors.ErrCodeBookingNotFound, "booking %q not found", bookingID)
	}
	s, err := e.machine.PointerDown(*b, edge, p)
	if err != nil {
		return interaction.Session{}, err
	}
	e.started = time.Now()
	e.logger.Debug("pointer down", "session", s.ID, "booking", bookingID, "edge", edge)
	observability.Engine().OnSessionStart(s.ID, bookingID, edge.String())
	return s, nil
}

// PointerMove applies a move immediately and reports whether the ghost
// changed. Hosts receiving many moves per frame use QueueMove and Flush.
func (e *Engine) PointerMove(p interaction.Point) bool {
	e.coalescer.Drop()
	return e.machine.PointerMove(p)
}

// QueueMove buffers a move until the next Flush. It reports true when the
// host should schedule a frame.
func (e *Engine) QueueMove(p interaction.Point) bool { return e.coalescer.Move(p) }

// Flush applies the latest queued move and reports whether the ghost changed.
func (e *Engine) Flush() bool { return e.coalescer.Flush() }

// PointerUp ends the session. With auto-apply on, a commit event is applied
// to the dataset before it is returned. A commit that cannot be applied is
// still returned together with the error.
func (e *Engine) PointerUp(p interaction.Point) (interaction.Event, bool, error) {
	ev, ok := e.coalescer.Up(p)
	if !ok {
		return ev, false, nil
	}
	e.sessionEnded(ev)
	if !ev.IsCommit() || !e.autoApply {
		return ev, true, nil
	}
	return ev, true, e.Apply(ev)
}

// Cancel discards the session. It reports false when no session existed.
func (e *Engine) Cancel() (interaction.Event, bool) {
	ev, ok := e.coalescer.Cancel()
	if ok {
		e.sessionEnded(ev)
	}
	return ev, ok
}

func (e *Engine) sessionEnded(ev interaction.Event) {
	took := time.Since(e.started)
	e.logger.Debug("session ended", "session", ev.SessionID, "booking", ev.BookingID, "kind", ev.Kind, "took", took)
	observability.Engine().OnSessionEnd(ev.SessionID, ev.BookingID, string(ev.Kind), took)
}

// Apply replaces the committed booking in the dataset. Unchanged commits
// are accepted without touching the snapshot.
func (e *Engine) Apply(ev interaction.Event) error {
	if !ev.IsCommit() {
		return errors.New(errors.ErrCodeInvalidInput, "%s event is not a commit", ev.Kind)
	}
	b, ok := e.data.Find(ev.BookingID)
	if !ok {
		err := errors.New(errors.ErrCodeBookingNotFound, "booking %q no longer exists", ev.BookingID)
		observability.Engine().OnCommitApplied(ev.BookingID, false, err)
		return err
	}

	next := ev.Apply(*b)
	if sameGeometry(*b, next) {
		observability.Engine().OnCommitApplied(ev.BookingID, false, nil)
		return nil
	}
	ds, err := e.data.WithBooking(next)
	if err != nil {
		observability.Engine().OnCommitApplied(ev.BookingID, false, err)
		return err
	}
	e.replaceBookings(ds)

	e.logger.Info("booking updated",
		"booking", next.ID,
		"resource", next.ResourceID,
		"time", formatRange(next))
	observability.Engine().OnCommitApplied(ev.BookingID, true, nil)
	return nil
}

func sameGeometry(a, b booking.Booking) bool {
	return a.Start == b.Start && a.End == b.End && a.ResourceID == b.ResourceID
}
