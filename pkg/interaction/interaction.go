package interaction

import (
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/errors"
	"github.com/matzehuels/schedgrid/pkg/timeaxis"
)

// Defaults for [Config].
const (
	DefaultDragThreshold = 5.0
	DefaultSnapInterval  = 15
	DefaultMinDuration   = 15
)

// Phase is the state of the machine.
type Phase int

// Phases.
const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseDragging
	PhaseResizing
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// MarshalText encodes the phase name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	for _, c := range []Phase{PhaseIdle, PhasePending, PhaseDragging, PhaseResizing} {
		if c.String() == string(text) {
			*p = c
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown phase %q", text)
}

// Edge identifies the grabbed part of a booking.
type Edge int

// Edges. EdgeNone grabs the body and moves the booking.
const (
	EdgeNone Edge = iota
	EdgeStart
	EdgeEnd
)

func (e Edge) String() string {
	switch e {
	case EdgeStart:
		return "start"
	case EdgeEnd:
		return "end"
	default:
		return "none"
	}
}

// MarshalText encodes the edge name.
func (e Edge) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText decodes an edge name. Empty and "none" select a move.
func (e *Edge) UnmarshalText(b []byte) error {
	v, err := ParseEdge(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseEdge parses "start", "end", "none" or "".
func ParseEdge(s string) (Edge, error) {
	switch s {
	case "", "none", "move":
		return EdgeNone, nil
	case "start":
		return EdgeStart, nil
	case "end":
		return EdgeEnd, nil
	}
	return EdgeNone, errors.New(errors.ErrCodeInvalidInput, "unknown edge %q (want start, end, or none)", s)
}

// Yield selects which edge gives way when a resize would violate the
// minimum duration.
type Yield string

// Yield policies.
const (
	YieldDragged  Yield = "dragged"
	YieldOpposite Yield = "opposite"
)

// Point is a pointer position in grid content coordinates: X along the time
// axis of the visible day, Y down the row layout.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Manhattan returns |dx|+|dy| between two points.
func (p Point) Manhattan(q Point) float64 {
	return math.Abs(p.X-q.X) + math.Abs(p.Y-q.Y)
}

// RowLocator resolves the resource row under a vertical content offset.
type RowLocator interface {
	ResourceAt(y float64) (string, bool)
}

// Config holds the gesture parameters.
type Config struct {
	Axis          timeaxis.Axis
	DragThreshold float64
	SnapInterval  int
	MinDuration   int
	Yield         Yield
}

// DefaultConfig returns the default gesture parameters for axis.
func DefaultConfig(axis timeaxis.Axis) Config {
	return Config{
		Axis:          axis,
		DragThreshold: DefaultDragThreshold,
		SnapInterval:  DefaultSnapInterval,
		MinDuration:   DefaultMinDuration,
		Yield:         YieldDragged,
	}
}

// Snapshot is the part of a booking a session remembers from pointer-down.
type Snapshot struct {
	ID         string `json:"id"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	ResourceID string `json:"resource_id"`
}

// Session is the state of one gesture from pointer-down to up or cancel.
type Session struct {
	ID       string          `json:"id"`
	Original Snapshot        `json:"original"`
	Booking  booking.Booking `json:"-"`
	Edge     Edge            `json:"edge"`
	Phase    Phase           `json:"phase"`
	Down     Point           `json:"down"`
	Current  Point           `json:"current"`

	// Candidate geometry, valid once Phase is dragging or resizing.
	Start      int    `json:"start"`
	End        int    `json:"end"`
	ResourceID string `json:"resource_id"`
}

// Ghost is the live preview of where the booking would land if released.
type Ghost struct {
	BookingID  string `json:"booking_id"`
	Phase      Phase  `json:"phase"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	ResourceID string `json:"resource_id"`
}

// Machine is the drag/resize state machine. It is driven from a single
// goroutine, normally the UI loop.
type Machine struct {
	cfg     Config
	rows    RowLocator
	session *Session
}

// NewMachine returns an idle machine. rows may be nil, in which case drags
// always keep their original resource.
func NewMachine(cfg Config, rows RowLocator) *Machine {
	cfg.MinDuration = max(cfg.MinDuration, 0)
	cfg.DragThreshold = max(cfg.DragThreshold, 0)
	if cfg.Yield == "" {
		cfg.Yield = YieldDragged
	}
	return &Machine{cfg: cfg, rows: rows}
}

// Config returns the machine's configuration.
func (m *Machine) Config() Config { return m.cfg }

// SetRows replaces the row locator, typically after the row layout was
// rebuilt. An active session keeps running against the new layout.
func (m *Machine) SetRows(rows RowLocator) { m.rows = rows }

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	if m.session == nil {
		return PhaseIdle
	}
	return m.session.Phase
}

// Active reports whether a session exists.
func (m *Machine) Active() bool { return m.session != nil }

// Session returns a copy of the active session.
func (m *Machine) Session() (Session, bool) {
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Ghost returns the preview of an active drag or resize. Pending sessions
// have no ghost.
func (m *Machine) Ghost() (Ghost, bool) {
	s := m.session
	if s == nil || (s.Phase != PhaseDragging && s.Phase != PhaseResizing) {
		return Ghost{}, false
	}
	return Ghost{
		BookingID:  s.Original.ID,
		Phase:      s.Phase,
		Start:      s.Start,
		End:        s.End,
		ResourceID: s.ResourceID,
	}, true
}

// PointerDown starts a session on b. edge selects a move (EdgeNone) or a
// resize of the given edge. It fails with SESSION_ACTIVE when a session
// already exists.
func (m *Machine) PointerDown(b booking.Booking, edge Edge, p Point) (Session, error) {
	if m.session != nil {
		return Session{}, errors.New(errors.ErrCodeSessionActive,
			"session %s on booking %q is still %s", m.session.ID, m.session.Original.ID, m.session.Phase)
	}
	if edge != EdgeStart && edge != EdgeEnd {
		edge = EdgeNone
	}

	m.session = &Session{
		ID: uuid.NewString(),
		Original: Snapshot{
			ID:         b.ID,
			Start:      b.Start,
			End:        b.End,
			ResourceID: b.ResourceID,
		},
		Booking:    b,
		Edge:       edge,
		Phase:      PhasePending,
		Down:       p,
		Current:    p,
		Start:      b.Start,
		End:        b.End,
		ResourceID: b.ResourceID,
	}
	return *m.session, nil
}

// PointerMove feeds a pointer position into the active session. It reports
// whether the session's visible state (phase or ghost geometry) changed.
// Without a session it is a no-op.
func (m *Machine) PointerMove(p Point) bool {
	s := m.session
	if s == nil {
		return false
	}
	s.Current = p

	switch s.Phase {
	case PhasePending:
		if p.Manhattan(s.Down) <= m.cfg.DragThreshold {
			return false
		}
		if s.Edge == EdgeNone {
			s.Phase = PhaseDragging
		} else {
			s.Phase = PhaseResizing
		}
		m.update(s)
		return true

	case PhaseDragging, PhaseResizing:
		start, end, res := s.Start, s.End, s.ResourceID
		m.update(s)
		return start != s.Start || end != s.End || res != s.ResourceID
	}
	return false
}

func (m *Machine) update(s *Session) {
	dx := s.Current.X - s.Down.X
	if s.Phase == PhaseDragging {
		s.Start, s.End = m.dragGeometry(s.Original, dx)
		s.ResourceID = m.target(s)
		return
	}
	s.Start, s.End = m.resizeGeometry(s.Original, s.Edge, dx)
	s.ResourceID = s.Original.ResourceID
}

// project maps an original minute shifted by dx pixels to a snapped,
// clamped minute.
func (m *Machine) project(minutes int, dx float64) int {
	a := m.cfg.Axis
	raw := a.PositionToMinutes(a.MinutesToPosition(minutes) + dx)
	return a.Clamp(timeaxis.SnapToGrid(raw, m.cfg.SnapInterval))
}

func (m *Machine) dragGeometry(orig Snapshot, dx float64) (start, end int) {
	duration := orig.End - orig.Start
	start = m.project(orig.Start, dx)
	end = start + duration
	if dayEnd := m.cfg.Axis.DayEnd(); end > dayEnd {
		end = dayEnd
		start = dayEnd - duration
	}
	return start, end
}

func (m *Machine) resizeGeometry(orig Snapshot, edge Edge, dx float64) (start, end int) {
	minDur := m.cfg.MinDuration
	dayStart, dayEnd := m.cfg.Axis.DayStart(), m.cfg.Axis.DayEnd()
	start, end = orig.Start, orig.End

	switch edge {
	case EdgeStart:
		start = m.project(orig.Start, dx)
		if end-start < minDur {
			if m.cfg.Yield == YieldOpposite {
				end = start + minDur
			} else {
				start = end - minDur
			}
		}
	case EdgeEnd:
		end = m.project(orig.End, dx)
		if end-start < minDur {
			if m.cfg.Yield == YieldOpposite {
				start = end - minDur
			} else {
				end = start + minDur
			}
		}
	}

	if start < dayStart {
		start = dayStart
		end = max(end, start+minDur)
	}
	if end > dayEnd {
		end = dayEnd
		start = min(start, end-minDur)
	}
	return start, end
}

func (m *Machine) target(s *Session) string {
	if m.rows != nil {
		if id, ok := m.rows.ResourceAt(s.Current.Y); ok {
			return id
		}
	}
	return s.Original.ResourceID
}

// PointerUp ends the session. The release position is applied as a final
// move first, then a pending session yields a selection and a dragging or
// resizing session yields a commit. Without a session it reports false.
func (m *Machine) PointerUp(p Point) (Event, bool) {
	s := m.session
	if s == nil {
		return Event{}, false
	}
	m.PointerMove(p)
	m.session = nil

	ev := Event{
		SessionID: s.ID,
		BookingID: s.Original.ID,
		Original:  s.Original,
		Start:     s.Start,
		End:       s.End,
	}

	switch s.Phase {
	case PhaseDragging:
		ev.Kind = EventDragCommit
		ev.ResourceID = s.ResourceID
	case PhaseResizing:
		ev.Kind = EventResizeCommit
		ev.ResourceID = s.Original.ResourceID
	default:
		ev.Kind = EventSelection
		ev.Booking = s.Booking
		ev.Anchor = p
		ev.Start, ev.End = s.Original.Start, s.Original.End
		ev.ResourceID = s.Original.ResourceID
	}
	return ev, true
}

// Cancel discards the active session without committing. It reports false
// when the machine was already idle.
func (m *Machine) Cancel() (Event, bool) {
	s := m.session
	if s == nil {
		return Event{}, false
	}
	m.session = nil
	return Event{
		Kind:       EventCancelled,
		SessionID:  s.ID,
		BookingID:  s.Original.ID,
		Original:   s.Original,
		Start:      s.Original.Start,
		End:        s.Original.End,
		ResourceID: s.Original.ResourceID,
	}, true
}
