// Package cli implements the schedgrid command-line interface.
//
// Every command works on one dataset (--data, or the [source] section of
// --config) and one visible range (--view and --date).
//
// # Commands
//
// The main commands are:
//   - lanes: lane assignment per resource, optionally as an overlap-graph SVG
//   - layout: the full grid snapshot as JSON, cached between runs
//   - index: booking counts per date and resource
//   - grid: interactive terminal grid with mouse drag and resize
//   - serve: HTTP API around one grid engine
//   - cache, config: cache maintenance and a default config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports engine recomputation and cache hits through the observability hooks.
//
// # Example
//
//	import "github.com/matzehuels/schedgrid/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Loaded 42 bookings on 6 resources (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
