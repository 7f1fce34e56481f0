package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schedgrid/pkg/buildinfo"
	"github.com/matzehuels/schedgrid/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Schedgrid lays out bookings on a resource scheduling grid",
		Long: `Schedgrid computes the layout of a booking grid: overlapping bookings are
packed into lanes, resources are stacked into collapsible groups, and
bookings can be dragged and resized with the mouse in the terminal or
through the HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.registerHooks()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (TOML)")
	flags.StringVarP(&c.dataPath, "data", "d", "", "dataset file (JSON or TOML); overrides [source]")
	flags.StringVar(&c.view, "view", "day", "visible range: day, week, month")
	flags.StringVar(&c.date, "date", "", "anchor date YYYY-MM-DD (default: today)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&c.offline, "offline", false, "use the dataset cached by the last run instead of the source")

	root.AddCommand(c.lanesCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.gridCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// registerHooks routes engine, cache and server events to the logger when
// debug logging is on.
func (c *CLI) registerHooks() {
	if c.Logger.GetLevel() > log.DebugLevel {
		observability.Reset()
		return
	}
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetEngineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
}
