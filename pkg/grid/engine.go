package grid

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/config"
	"github.com/matzehuels/schedgrid/pkg/errors"
	"github.com/matzehuels/schedgrid/pkg/index"
	"github.com/matzehuels/schedgrid/pkg/interaction"
	"github.com/matzehuels/schedgrid/pkg/lanes"
	"github.com/matzehuels/schedgrid/pkg/rows"
	"github.com/matzehuels/schedgrid/pkg/timeaxis"
	"github.com/matzehuels/schedgrid/pkg/virtual"
)

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithView sets the initial view and anchor date. The default is the day
// view anchored on today.
func WithView(view booking.View, anchor time.Time) Option {
	return func(e *Engine) {
		e.view, e.anchor = view, anchor
	}
}

// WithAutoApply controls whether commits are applied to the dataset when a
// session ends. It defaults to true.
func WithAutoApply(on bool) Option {
	return func(e *Engine) { e.autoApply = on }
}

// versions identifies the inputs a derived structure was computed from.
type versions struct {
	data, rng uint64
}

// Engine is the grid root. See the package documentation.
type Engine struct {
	cfg       *config.Config
	logger    *log.Logger
	autoApply bool

	data      *booking.Dataset
	view      booking.View
	anchor    time.Time
	dates     []string
	ver       versions
	structure uint64 // resources, groups, collapse flags

	laneCaches  map[string]*lanes.Cache
	assignments map[string]map[string]lanes.Assignment // date -> resource -> lanes
	laneCounts  map[string]int
	lanesAt     versions
	lanesOK     bool

	layout       rows.Layout
	layoutCounts map[string]int
	rowsAt       uint64
	rowsOK       bool
	window       *virtual.Window

	ix      index.Index
	indexAt versions
	indexOK bool

	machine   *interaction.Machine
	coalescer *interaction.Coalescer
	started   time.Time
}

// New returns an engine over ds. A nil cfg uses [config.Default].
func New(ds *booking.Dataset, cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if ds == nil {
		ds = &booking.Dataset{}
	}
	e := &Engine{
		cfg:        cfg,
		logger:     log.Default(),
		autoApply:  true,
		data:       ds,
		view:       booking.ViewDay,
		anchor:     time.Now(),
		laneCaches: make(map[string]*lanes.Cache),
		window:     virtual.New(cfg.WindowOptions()...),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dates = booking.DateKeys(e.view, e.anchor)
	e.machine = interaction.NewMachine(cfg.Interaction(), layoutLocator{e})
	e.coalescer = interaction.NewCoalescer(e.machine)
	return e
}

// layoutLocator resolves rows against the engine's current layout, so hit
// tests during a session see layout changes immediately.
type layoutLocator struct{ e *Engine }

func (l layoutLocator) ResourceAt(y float64) (string, bool) {
	return l.e.Rows().ResourceAt(y)
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Axis returns the time axis.
func (e *Engine) Axis() timeaxis.Axis { return e.cfg.Axis() }

// Dataset returns the current snapshot. Callers must not modify it.
func (e *Engine) Dataset() *booking.Dataset { return e.data }

// SetDataset replaces the snapshot. An active session keeps its original
// booking snapshot.
func (e *Engine) SetDataset(ds *booking.Dataset) {
	if ds == nil {
		ds = &booking.Dataset{}
	}
	e.data = ds
	e.ver.data++
	e.structure++
}

// replaceBookings swaps in a snapshot that differs from the current one in
// bookings only.
func (e *Engine) replaceBookings(ds *booking.Dataset) {
	e.data = ds
	e.ver.data++
}

// View returns the current view and anchor.
func (e *Engine) View() (booking.View, time.Time) { return e.view, e.anchor }

// SetView changes the visible range.
func (e *Engine) SetView(view booking.View, anchor time.Time) {
	dates := booking.DateKeys(view, anchor)
	e.view, e.anchor = view, anchor
	if slices.Equal(dates, e.dates) {
		return
	}
	e.dates = dates
	e.ver.rng++
}

// DateKeys returns the visible date keys in order.
func (e *Engine) DateKeys() []string { return e.dates }

// ToggleGroup flips a group's collapse flag and returns the new state.
func (e *Engine) ToggleGroup(id string) (bool, error) {
	for _, g := range e.data.Groups {
		if g.ID == id {
			return !g.Collapsed, e.SetCollapsed(id, !g.Collapsed)
		}
	}
	return false, errors.New(errors.ErrCodeNotFound, "group %q not found", id)
}

// SetCollapsed sets a group's collapse flag.
func (e *Engine) SetCollapsed(id string, collapsed bool) error {
	for _, g := range e.data.Groups {
		if g.ID != id {
			continue
		}
		if g.Collapsed != collapsed {
			e.data = e.data.WithGroupCollapsed(id, collapsed)
			e.structure++
			e.logger.Debug("group toggled", "group", id, "collapsed", collapsed)
		}
		return nil
	}
	return errors.New(errors.ErrCodeNotFound, "group %q not found", id)
}
