package cli

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schedgrid/pkg/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grid over HTTP",
		Long: `Serve one grid engine over HTTP. A browser front end queries layout
snapshots and relays pointer events; committed drags and resizes update the
in-memory dataset until the next reload.

With --verbose, engine recomputation, cache activity and every request are
logged at debug level.`,
		Example: `  schedgrid serve -d examples/flightschool.toml --listen :8080
  curl 'localhost:8080/api/v1/layout?view=week&date=2026-02-16'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default: [server] listen)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, listen string) error {
	ws, err := c.openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close(context.WithoutCancel(ctx))

	if listen == "" {
		listen = ws.cfg.Server.Listen
	}

	srv := server.New(ws.engine, ws.src, c.Logger)
	printSuccess("Serving %s bookings", StyleNumber.Render(strconv.Itoa(len(ws.data.Bookings))))
	printKeyValue("Listen", listen)
	printKeyValue("Source", ws.src.Kind()+" "+ws.src.Ref())
	printNewline()

	if err := srv.ListenAndServe(ctx, listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	printInfo("Server stopped")
	return nil
}
