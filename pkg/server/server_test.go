package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/errors"
	"github.com/matzehuels/schedgrid/pkg/grid"
	"github.com/matzehuels/schedgrid/pkg/interaction"
)

func dataset() *booking.Dataset {
	return &booking.Dataset{
		Groups: []booking.Group{{ID: "aircraft", Label: "Aircraft"}},
		Resources: []booking.Resource{
			{ID: "ac-1", Name: "D-EABC", GroupID: "aircraft"},
			{ID: "ac-2", Name: "D-EXYZ", GroupID: "aircraft", Order: 1},
		},
		Bookings: []booking.Booking{
			{ID: "b1", ResourceID: "ac-1", Title: "Circuits", Date: "2026-02-16", Start: 540, End: 600},
			{ID: "b2", ResourceID: "ac-2", Title: "Nav", Date: "2026-02-16", Start: 600, End: 660},
		},
	}
}

// staticSource serves a fixed dataset.
type staticSource struct{ ds *booking.Dataset }

func (s staticSource) Load(context.Context) (*booking.Dataset, error) { return s.ds, nil }
func (staticSource) Kind() string                                     { return "static" }
func (staticSource) Ref() string                                      { return "test" }
func (staticSource) Close(context.Context) error                      { return nil }

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	anchor := time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)
	engine := grid.New(dataset(), nil, grid.WithView(booking.ViewDay, anchor), grid.WithLogger(logger))
	ts := httptest.NewServer(New(engine, staticSource{dataset()}, logger))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	ts := newServer(t)
	var body map[string]string
	if code := do(t, ts, http.MethodGet, "/healthz", "", &body); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", code, body)
	}
}

func TestLayout(t *testing.T) {
	ts := newServer(t)

	var snap grid.Snapshot
	if code := do(t, ts, http.MethodGet, "/api/v1/layout?viewport=400", "", &snap); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if snap.TotalHeight != 108 || len(snap.Rows) != 3 || len(snap.Cells) != 2 {
		t.Errorf("snapshot: height %g, %d rows, %d cells", snap.TotalHeight, len(snap.Rows), len(snap.Cells))
	}

	if code := do(t, ts, http.MethodGet, "/api/v1/layout?view=week&date=2026-02-18", "", &snap); code != http.StatusOK {
		t.Fatalf("week status %d", code)
	}
	if len(snap.Dates) != 7 || snap.Dates[0] != "2026-02-16" {
		t.Errorf("week dates = %v", snap.Dates)
	}
}

func TestLayoutBadParams(t *testing.T) {
	ts := newServer(t)
	for _, q := range []string{"view=year", "date=16.02.2026", "scroll=abc"} {
		var e errorResponse
		code := do(t, ts, http.MethodGet, "/api/v1/layout?"+q, "", &e)
		if code != http.StatusBadRequest || e.Code == "" {
			t.Errorf("%s: %d %+v", q, code, e)
		}
	}
}

func TestCellsAndLanes(t *testing.T) {
	ts := newServer(t)

	var cell []booking.Booking
	do(t, ts, http.MethodGet, "/api/v1/cells/2026-02-16/ac-1", "", &cell)
	if len(cell) != 1 || cell[0].ID != "b1" {
		t.Errorf("cell = %+v", cell)
	}

	var lanes map[string]struct {
		Lanes map[string]int `json:"lanes"`
		Count int            `json:"count"`
	}
	if code := do(t, ts, http.MethodGet, "/api/v1/lanes/2026-02-16", "", &lanes); code != http.StatusOK {
		t.Fatalf("lanes status %d", code)
	}
	if lanes["ac-2"].Count != 1 {
		t.Errorf("lanes = %+v", lanes)
	}

	if code := do(t, ts, http.MethodGet, "/api/v1/cells/not-a-date/ac-1", "", nil); code != http.StatusBadRequest {
		t.Errorf("bad date status = %d", code)
	}
}

func TestPointerDragCommit(t *testing.T) {
	ts := newServer(t)

	var sess interaction.Session
	if code := do(t, ts, http.MethodPost, "/api/v1/pointer/down", `{"booking_id":"b1","x":120,"y":40}`, &sess); code != http.StatusOK {
		t.Fatalf("down status %d", code)
	}
	if sess.ID == "" || sess.Phase != interaction.PhasePending {
		t.Errorf("session = %+v", sess)
	}

	var mv moveResponse
	do(t, ts, http.MethodPost, "/api/v1/pointer/move", `{"x":167,"y":80}`, &mv)
	if !mv.Changed || mv.Ghost == nil || mv.Ghost.Start != 585 || mv.Ghost.ResourceID != "ac-2" {
		t.Errorf("move = %+v", mv)
	}

	var up upResponse
	do(t, ts, http.MethodPost, "/api/v1/pointer/up", `{"x":167,"y":80}`, &up)
	if !up.Applied || up.Event.Kind != interaction.EventDragCommit || up.Event.End != 645 {
		t.Errorf("up = %+v", up)
	}

	var cell []booking.Booking
	do(t, ts, http.MethodGet, "/api/v1/cells/2026-02-16/ac-2", "", &cell)
	if len(cell) != 2 {
		t.Errorf("ac-2 cell after commit = %+v", cell)
	}
}

func TestPointerConflicts(t *testing.T) {
	ts := newServer(t)

	var e errorResponse
	if code := do(t, ts, http.MethodPost, "/api/v1/pointer/move", `{"x":1,"y":1}`, &e); code != http.StatusConflict || e.Code != errors.ErrCodeNoSession {
		t.Errorf("move without session = %d %+v", code, e)
	}
	if code := do(t, ts, http.MethodPost, "/api/v1/pointer/down", `{"booking_id":"nope"}`, &e); code != http.StatusNotFound {
		t.Errorf("unknown booking = %d", code)
	}
	if code := do(t, ts, http.MethodPost, "/api/v1/pointer/down", `{"booking_id":"b1","edge":"sideways"}`, &e); code != http.StatusBadRequest {
		t.Errorf("bad edge = %d", code)
	}
	if code := do(t, ts, http.MethodPost, "/api/v1/pointer/down", `{"booking_id":"b1","edge":"end","x":180,"y":40}`, nil); code != http.StatusOK {
		t.Fatalf("down = %d", code)
	}
	if code := do(t, ts, http.MethodPost, "/api/v1/pointer/down", `{"booking_id":"b2"}`, &e); code != http.StatusConflict || e.Code != errors.ErrCodeSessionActive {
		t.Errorf("second down = %d %+v", code, e)
	}

	var ev interaction.Event
	if code := do(t, ts, http.MethodPost, "/api/v1/pointer/cancel", "", &ev); code != http.StatusOK || ev.Kind != interaction.EventCancelled {
		t.Errorf("cancel = %d %+v", code, ev)
	}
	if code := do(t, ts, http.MethodPost, "/api/v1/pointer/up", `{"x":0,"y":0}`, nil); code != http.StatusConflict {
		t.Errorf("up after cancel = %d", code)
	}
}

func TestToggleAndReload(t *testing.T) {
	ts := newServer(t)

	var toggled map[string]bool
	if code := do(t, ts, http.MethodPost, "/api/v1/groups/aircraft/toggle", "", &toggled); code != http.StatusOK || !toggled["collapsed"] {
		t.Errorf("toggle = %d %v", code, toggled)
	}
	if code := do(t, ts, http.MethodPost, "/api/v1/groups/nope/toggle", "", nil); code != http.StatusNotFound {
		t.Errorf("toggle unknown = %d", code)
	}

	var counts map[string]int
	if code := do(t, ts, http.MethodPost, "/api/v1/reload", "", &counts); code != http.StatusOK || counts["bookings"] != 2 {
		t.Errorf("reload = %d %v", code, counts)
	}
}
