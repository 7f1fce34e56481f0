package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/config"
	"github.com/matzehuels/schedgrid/pkg/errors"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"lanes", "layout", "index", "grid", "serve", "cache", "config", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "data", "view", "date", "no-cache", "offline"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.DayStartHour != config.Default().Grid.DayStartHour {
		t.Errorf("defaults not applied: %+v", cfg.Grid)
	}

	path := filepath.Join(t.TempDir(), "schedgrid.toml")
	if err := os.WriteFile(path, []byte("[grid]\ndayStartHour = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.configPath = path
	c.dataPath = "bookings.json"

	cfg, err = c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.DayStartHour != 6 {
		t.Errorf("DayStartHour = %d, want 6", cfg.Grid.DayStartHour)
	}
	if cfg.Source.Kind != config.SourceFile || cfg.Source.Path != "bookings.json" {
		t.Errorf("--data not applied: %+v", cfg.Source)
	}

	c.configPath = filepath.Join(t.TempDir(), "missing.toml")
	if _, err := c.loadConfig(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing config: got %v", err)
	}
}

func TestViewRange(t *testing.T) {
	c := &CLI{Logger: log.New(io.Discard), view: "week", date: "2026-02-18"}

	view, anchor, err := c.viewRange()
	if err != nil {
		t.Fatal(err)
	}
	if view != booking.ViewWeek || !anchor.Equal(time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("viewRange = %s %s", view, anchor)
	}

	c.view = "year"
	if _, _, err := c.viewRange(); err == nil {
		t.Error("unknown view should fail")
	}

	c.view, c.date = "day", "18.02.2026"
	if _, _, err := c.viewRange(); err == nil {
		t.Error("malformed date should fail")
	}

	c.date = ""
	if _, anchor, err := c.viewRange(); err != nil || anchor.IsZero() {
		t.Errorf("empty date should select today, got %s %v", anchor, err)
	}
}
