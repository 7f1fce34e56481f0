package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schedgrid/pkg/booking"
)

// gridCommand creates the interactive grid command.
func (c *CLI) gridCommand() *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Open the interactive booking grid",
		Long: `Open the booking grid in the terminal, one day at a time.

Drag a booking with the mouse to move it in time or onto another resource;
drag its first or last column to resize it. Click a group header to fold
the group. Changes stay in memory; use --save to write the edited dataset.`,
		Example: `  schedgrid grid -d examples/flightschool.toml --date 2026-02-16 --save edited.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGrid(cmd.Context(), save)
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "write the edited dataset to this JSON file on exit")

	return cmd
}

func (c *CLI) runGrid(ctx context.Context, save string) error {
	ws, err := c.openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close(ctx)

	_, anchor := ws.engine.View()
	ws.engine.SetView(booking.ViewDay, anchor)

	// The alternate screen owns the terminal; logs are replayed on exit.
	var logs bytes.Buffer
	c.Logger.SetOutput(&logs)
	defer func() {
		c.Logger.SetOutput(os.Stderr)
		_, _ = os.Stderr.Write(logs.Bytes())
	}()

	model := newGridModel(ws.engine)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run grid: %w", err)
	}

	if model.commits == 0 {
		printInfo("No changes")
		return nil
	}
	printSuccess("%d bookings changed", model.commits)
	if save == "" {
		printDetail("Changes were not saved (use --save)")
		return nil
	}
	if err := booking.WriteFile(ws.engine.Dataset(), save); err != nil {
		return err
	}
	printFile(save)
	return nil
}
