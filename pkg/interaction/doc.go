// Package interaction turns pointer gestures on bookings into snapped
// move/resize commits or plain selections.
//
// # States
//
//	idle ──down──▶ pending ──move past threshold──▶ dragging | resizing
//	  ▲               │                                   │
//	  └──── up: selection ◀┘        up: commit / cancel ──┘
//
// A [Machine] owns at most one [Session]. PointerDown on a booking's body
// starts a move gesture; PointerDown on its start or end edge starts a
// resize gesture. Nothing is reported until the pointer has travelled more
// than the drag threshold (Manhattan distance), so a click never produces a
// commit.
//
// # Geometry
//
// While dragging, the candidate start is the original start shifted by the
// pointer's horizontal delta, snapped to the grid and clamped to the visible
// day. The original duration is preserved; a candidate running past the day
// end is shifted back so it ends exactly at the day end. The target resource
// is the row under the pointer, or the original resource when the pointer
// is over a header or outside every row.
//
// While resizing, only the active edge follows the pointer. When the result
// would be shorter than the minimum duration, the configured [Yield] decides
// which edge gives way: by default the dragged edge stops at
// opposite edge ± minimum; with [YieldOpposite] the opposite edge is pushed
// instead. Day bounds always win over both.
//
// # Host contract
//
// The machine never mutates bookings. Commit events carry the requested
// geometry and the host decides whether to apply it. Starting a second
// session while one is active returns an error with code SESSION_ACTIVE and
// leaves the active session untouched. Moves arriving after up or cancel are
// ignored.
//
// High-frequency moves should go through a [Coalescer], which keeps only the
// most recent move until the host flushes it once per frame.
package interaction
