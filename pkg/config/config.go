// Package config loads schedgrid settings from TOML.
//
// A config file only needs the keys it changes; everything else keeps the
// value from [Default]. Unknown keys are rejected so typos do not silently
// fall back to defaults.
//
//	[grid]
//	dayStartHour = 6
//	dayEndHour   = 22
//	resizeYield  = "opposite"
//
//	[cache]
//	backend   = "redis"
//	redisAddr = "localhost:6379"
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/schedgrid/pkg/errors"
	"github.com/matzehuels/schedgrid/pkg/interaction"
	"github.com/matzehuels/schedgrid/pkg/rows"
	"github.com/matzehuels/schedgrid/pkg/timeaxis"
	"github.com/matzehuels/schedgrid/pkg/virtual"
)

// Source kinds.
const (
	SourceFile  = "file"
	SourceMongo = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Grid   Grid   `toml:"grid" json:"grid"`
	Window Window `toml:"window" json:"window"`
	Source Source `toml:"source" json:"source"`
	Cache  Cache  `toml:"cache" json:"cache"`
	Server Server `toml:"server" json:"server"`
}

// Grid holds the time axis, row geometry and gesture parameters.
type Grid struct {
	DayStartHour      int     `toml:"dayStartHour" json:"day_start_hour"`
	DayEndHour        int     `toml:"dayEndHour" json:"day_end_hour"`
	HourWidth         float64 `toml:"hourWidth" json:"hour_width"`
	BaseRowHeight     float64 `toml:"baseRowHeight" json:"base_row_height"`
	GroupHeaderHeight float64 `toml:"groupHeaderHeight" json:"group_header_height"`
	DragThreshold     float64 `toml:"dragThreshold" json:"drag_threshold"`
	SnapInterval      int     `toml:"snapInterval" json:"snap_interval"`
	MinDuration       int     `toml:"minDuration" json:"min_duration"`
	ResizeYield       string  `toml:"resizeYield" json:"resize_yield"`
}

// Window holds virtualization parameters.
type Window struct {
	Overscan     int     `toml:"overscan" json:"overscan"`
	OverscanPx   float64 `toml:"overscanPx" json:"overscan_px"`
	ScrollMargin float64 `toml:"scrollMargin" json:"scroll_margin"`
}

// Source selects where bookings are read from.
type Source struct {
	Kind       string `toml:"kind" json:"kind"`
	Path       string `toml:"path" json:"path,omitempty"`
	MongoURI   string `toml:"mongoURI" json:"mongo_uri,omitempty"`
	Database   string `toml:"database" json:"database,omitempty"`
	Collection string `toml:"collection" json:"collection,omitempty"`
}

// Cache selects the snapshot cache backend.
type Cache struct {
	Backend   string   `toml:"backend" json:"backend"`
	Dir       string   `toml:"dir" json:"dir,omitempty"`
	RedisAddr string   `toml:"redisAddr" json:"redis_addr,omitempty"`
	RedisDB   int      `toml:"redisDB" json:"redis_db,omitempty"`
	TTL       Duration `toml:"ttl" json:"ttl"`
}

// Server holds HTTP adapter settings.
type Server struct {
	Listen string `toml:"listen" json:"listen"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Grid: Grid{
			DayStartHour:      7,
			DayEndHour:        19,
			HourWidth:         60,
			BaseRowHeight:     rows.DefaultRowHeight,
			GroupHeaderHeight: rows.DefaultHeaderHeight,
			DragThreshold:     interaction.DefaultDragThreshold,
			SnapInterval:      interaction.DefaultSnapInterval,
			MinDuration:       interaction.DefaultMinDuration,
			ResizeYield:       string(interaction.YieldDragged),
		},
		Window: Window{
			Overscan: virtual.DefaultOverscan,
		},
		Source: Source{
			Kind:       SourceFile,
			Database:   "schedgrid",
			Collection: "bookings",
		},
		Cache: Cache{
			Backend: CacheFile,
			TTL:     Duration{24 * time.Hour},
		},
		Server: Server{
			Listen: "127.0.0.1:8080",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// String returns the TOML form of c.
func (c *Config) String() string {
	var buf bytes.Buffer
	_ = c.Encode(&buf)
	return buf.String()
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	g := c.Grid
	if err := errors.ValidateHourRange(g.DayStartHour, g.DayEndHour); err != nil {
		return err
	}
	switch {
	case g.HourWidth <= 0:
		return invalid("grid.hourWidth must be positive, got %g", g.HourWidth)
	case g.BaseRowHeight <= 0:
		return invalid("grid.baseRowHeight must be positive, got %g", g.BaseRowHeight)
	case g.GroupHeaderHeight < 0:
		return invalid("grid.groupHeaderHeight must not be negative, got %g", g.GroupHeaderHeight)
	case g.DragThreshold < 0:
		return invalid("grid.dragThreshold must not be negative, got %g", g.DragThreshold)
	case g.SnapInterval <= 0 || g.SnapInterval > 60:
		return invalid("grid.snapInterval must be in 1..60, got %d", g.SnapInterval)
	case g.MinDuration < 0:
		return invalid("grid.minDuration must not be negative, got %d", g.MinDuration)
	case g.MinDuration > (g.DayEndHour-g.DayStartHour)*60:
		return invalid("grid.minDuration %d exceeds the visible day", g.MinDuration)
	}
	if !slices.Contains([]string{string(interaction.YieldDragged), string(interaction.YieldOpposite)}, g.ResizeYield) {
		return invalid("grid.resizeYield must be %q or %q, got %q", interaction.YieldDragged, interaction.YieldOpposite, g.ResizeYield)
	}

	w := c.Window
	if w.Overscan < 0 || w.OverscanPx < 0 || w.ScrollMargin < 0 {
		return invalid("window values must not be negative")
	}

	switch c.Source.Kind {
	case SourceFile:
	case SourceMongo:
		if c.Source.MongoURI == "" {
			return invalid("source.mongoURI is required for kind %q", SourceMongo)
		}
		if c.Source.Database == "" || c.Source.Collection == "" {
			return invalid("source.database and source.collection are required for kind %q", SourceMongo)
		}
	default:
		return invalid("source.kind must be %q or %q, got %q", SourceFile, SourceMongo, c.Source.Kind)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redisAddr is required for backend %q", CacheRedis)
		}
	default:
		return invalid("cache.backend must be %q, %q or %q, got %q", CacheFile, CacheRedis, CacheNone, c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid("cache.ttl must not be negative")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

// Axis returns the time axis.
func (c *Config) Axis() timeaxis.Axis {
	return timeaxis.Axis{
		DayStartHour: c.Grid.DayStartHour,
		DayEndHour:   c.Grid.DayEndHour,
		HourWidth:    c.Grid.HourWidth,
	}
}

// Interaction returns the gesture parameters.
func (c *Config) Interaction() interaction.Config {
	return interaction.Config{
		Axis:          c.Axis(),
		DragThreshold: c.Grid.DragThreshold,
		SnapInterval:  c.Grid.SnapInterval,
		MinDuration:   c.Grid.MinDuration,
		Yield:         interaction.Yield(c.Grid.ResizeYield),
	}
}

// RowOptions returns the row layout geometry.
func (c *Config) RowOptions() []rows.Option {
	return []rows.Option{
		rows.WithRowHeight(c.Grid.BaseRowHeight),
		rows.WithHeaderHeight(c.Grid.GroupHeaderHeight),
	}
}

// WindowOptions returns the virtual window parameters.
func (c *Config) WindowOptions() []virtual.Option {
	return []virtual.Option{
		virtual.WithOverscan(c.Window.Overscan),
		virtual.WithOverscanPx(c.Window.OverscanPx),
		virtual.WithScrollMargin(c.Window.ScrollMargin),
	}
}
