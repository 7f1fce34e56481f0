package interaction

// Coalescer buffers pointer moves so that at most one reaches the machine
// per rendered frame. Only the latest position is kept.
//
// The host calls Move for every pointer event and Flush from its frame
// callback. Up and Cancel discard any buffered move before ending the
// session, so a release is never followed by a stale move.
type Coalescer struct {
	m       *Machine
	pending Point
	queued  bool
}

// NewCoalescer wraps m.
func NewCoalescer(m *Machine) *Coalescer {
	return &Coalescer{m: m}
}

// Machine returns the wrapped machine.
func (c *Coalescer) Machine() *Machine { return c.m }

// Move buffers p. It reports true when p is the first move since the last
// flush, meaning the host should schedule a frame. Moves without an active
// session are dropped.
func (c *Coalescer) Move(p Point) bool {
	if !c.m.Active() {
		c.queued = false
		return false
	}
	first := !c.queued
	c.pending, c.queued = p, true
	return first
}

// Pending reports whether a move is waiting for the next flush.
func (c *Coalescer) Pending() bool { return c.queued }

// Flush delivers the buffered move, if any, and reports whether the
// machine's visible state changed.
func (c *Coalescer) Flush() bool {
	if !c.queued {
		return false
	}
	c.queued = false
	return c.m.PointerMove(c.pending)
}

// Drop discards the buffered move.
func (c *Coalescer) Drop() { c.queued = false }

// Up drops any buffered move and releases the pointer at p.
func (c *Coalescer) Up(p Point) (Event, bool) {
	c.Drop()
	return c.m.PointerUp(p)
}

// Cancel drops any buffered move and cancels the session.
func (c *Coalescer) Cancel() (Event, bool) {
	c.Drop()
	return c.m.Cancel()
}
