package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/cache"
	"github.com/matzehuels/schedgrid/pkg/observability"
)

type layoutOptions struct {
	output   string
	scroll   float64
	viewport float64
	collapse []string
}

// layoutCommand creates the layout command for computing grid snapshots.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the grid layout snapshot as JSON",
		Long: `Compute the grid layout for the visible range and write it as JSON.

The snapshot holds the time axis, every row with its offset and lane count,
the rows inside the viewport (plus overscan) and, for each visible cell,
its bookings with lane and horizontal position.

Snapshots are cached by the hash of the dataset and every layout parameter,
so unchanged inputs are served from the cache.`,
		Example: `  # Day view of a dataset file
  schedgrid layout -d examples/flightschool.toml --date 2026-02-16

  # Week view with the instructors group collapsed
  schedgrid layout -d examples/flightschool.toml --view week --collapse instructors -o week.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().Float64Var(&opts.scroll, "scroll", 0, "vertical scroll offset in pixels")
	cmd.Flags().Float64Var(&opts.viewport, "viewport", 600, "viewport height in pixels")
	cmd.Flags().StringSliceVar(&opts.collapse, "collapse", nil, "group IDs to collapse")

	return cmd
}

// runLayout loads the dataset, computes or fetches the snapshot, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts layoutOptions) error {
	ws, err := c.openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close(ctx)

	for _, id := range opts.collapse {
		if err := ws.engine.SetCollapsed(id, true); err != nil {
			return err
		}
	}

	key, err := snapshotKey(ws, opts)
	if err != nil {
		return fmt.Errorf("snapshot key: %w", err)
	}

	data, cached, err := c.cachedSnapshot(ctx, ws, key, opts)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeFile(data, opts.output); err != nil {
		return fmt.Errorf("write output %s: %w", opts.output, err)
	}
	if opts.output == "" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(opts.output)
	printStats(len(ws.data.Bookings), len(ws.engine.DateKeys()), cached)
	printNewline()
	printNextStep("Explore", fmt.Sprintf("%s grid --view %s", appName, c.view))
	return nil
}

// cachedSnapshot returns the encoded snapshot for key, computing and storing
// it on a miss.
func (c *CLI) cachedSnapshot(ctx context.Context, ws *workspace, key string, opts layoutOptions) ([]byte, bool, error) {
	hooks := observability.Cache()

	data, ok, err := ws.cache.Get(ctx, key)
	if err != nil {
		c.Logger.Warn("cache read failed", "err", err)
	}
	if ok {
		hooks.OnCacheHit(ctx, "snapshot")
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, "snapshot")

	prog := newProgress(c.Logger)
	snap := ws.engine.Snapshot(opts.scroll, opts.viewport)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, false, fmt.Errorf("encode snapshot: %w", err)
	}
	c.Logger.Debugf("snapshot: %d rows, %d visible, %d cells", len(snap.Rows), len(snap.Visible), len(snap.Cells))
	prog.done("Computed layout")

	if err := ws.cache.Set(ctx, key, buf.Bytes(), ws.cfg.Cache.TTL.Duration); err != nil {
		c.Logger.Warn("cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "snapshot", buf.Len())
	}
	return buf.Bytes(), false, nil
}

// snapshotKey hashes the dataset and every parameter that changes the snapshot.
func snapshotKey(ws *workspace, opts layoutOptions) (string, error) {
	hash, err := cache.HashJSON(ws.engine.Dataset())
	if err != nil {
		return "", err
	}
	view, anchor := ws.engine.View()
	g := ws.cfg.Grid

	collapsed := slices.Clone(opts.collapse)
	slices.Sort(collapsed)

	return ws.keyer.SnapshotKey(hash, cache.SnapshotKeyOpts{
		View:         string(view),
		Anchor:       booking.DateKey(anchor),
		DayStartHour: g.DayStartHour,
		DayEndHour:   g.DayEndHour,
		HourWidth:    g.HourWidth,
		RowHeight:    g.BaseRowHeight,
		HeaderHeight: g.GroupHeaderHeight,
		Overscan:     ws.cfg.Window.Overscan,
		Scroll:       opts.scroll,
		Viewport:     opts.viewport,
		Collapsed:    slices.Compact(collapsed),
	}), nil
}
