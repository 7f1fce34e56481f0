package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/cache"
	"github.com/matzehuels/schedgrid/pkg/config"
	"github.com/matzehuels/schedgrid/pkg/grid"
	"github.com/matzehuels/schedgrid/pkg/observability"
	"github.com/matzehuels/schedgrid/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "schedgrid"

	// keyScope namespaces CLI cache keys. Bump it when the snapshot format changes.
	keyScope = "cli:v1:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags, bound by RootCommand.
	configPath string
	dataPath   string
	view       string
	date       string
	noCache    bool
	offline    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Config and Data
// =============================================================================

// loadConfig reads --config (defaults when unset) and applies --data.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.dataPath != "" {
		cfg.Source.Kind = config.SourceFile
		cfg.Source.Path = c.dataPath
	}
	return cfg, nil
}

// viewRange resolves --view and --date. An empty date selects today.
func (c *CLI) viewRange() (booking.View, time.Time, error) {
	view, err := booking.ParseView(c.view)
	if err != nil {
		return "", time.Time{}, err
	}
	if c.date == "" {
		now := time.Now()
		return view, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	anchor, err := booking.ParseDateKey(c.date)
	if err != nil {
		return "", time.Time{}, err
	}
	return view, anchor, nil
}

// workspace bundles what most commands need.
type workspace struct {
	cfg    *config.Config
	src    source.Source
	cache  cache.Cache
	keyer  cache.Keyer
	data   *booking.Dataset
	engine *grid.Engine
}

func (w *workspace) Close(ctx context.Context) {
	if w.src != nil {
		_ = w.src.Close(ctx)
	}
	if w.cache != nil {
		_ = w.cache.Close()
	}
}

// openWorkspace loads config, reads the dataset and builds an engine over it.
// Every successful load is stored in the cache under the source's dataset
// key; with --offline that copy is used and the source is not queried.
func (c *CLI) openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	view, anchor, err := c.viewRange()
	if err != nil {
		return nil, err
	}

	ws := &workspace{cfg: cfg, keyer: newKeyer()}
	if ws.cache, err = c.newCache(ctx, cfg.Cache, c.noCache); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if ws.src, err = source.Open(ctx, cfg.Source, c.Logger); err != nil {
		ws.Close(ctx)
		return nil, err
	}

	if ws.data, err = c.loadDataset(ctx, ws); err != nil {
		ws.Close(ctx)
		return nil, err
	}
	ws.engine = grid.New(ws.data, cfg, grid.WithLogger(c.Logger), grid.WithView(view, anchor))
	return ws, nil
}

func (c *CLI) loadDataset(ctx context.Context, ws *workspace) (*booking.Dataset, error) {
	key := ws.keyer.DatasetKey(ws.src.Kind(), ws.src.Ref())

	if c.offline {
		data, ok, err := ws.cache.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read cached dataset: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: no dataset for %s %s; run once without --offline", cache.ErrCacheMiss, ws.src.Kind(), ws.src.Ref())
		}
		observability.Cache().OnCacheHit(ctx, "dataset")
		return booking.ReadJSON(bytes.NewReader(data))
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading bookings from %s...", ws.src.Kind()))
	spinner.Start()
	prog := newProgress(c.Logger)
	ds, err := ws.src.Load(ctx)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ws.src.Ref(), err)
	}
	prog.done(fmt.Sprintf("Loaded %d bookings on %d resources", len(ds.Bookings), len(ds.Resources)))

	var buf bytes.Buffer
	if err := booking.WriteJSON(ds, &buf); err == nil {
		if err := ws.cache.Set(ctx, key, buf.Bytes(), ws.cfg.Cache.TTL.Duration); err != nil {
			c.Logger.Warn("cache dataset", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "dataset", buf.Len())
		}
	}
	return ds, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the backend named in cfg. A file cache that cannot be
// created degrades to no cache.
func (c *CLI) newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: appName + ":",
		})
	}

	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

func newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyScope)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/schedgrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// writeFile writes data to path, or to stdout when path is empty.
func writeFile(data []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
