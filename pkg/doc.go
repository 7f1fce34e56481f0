// Package pkg provides the libraries behind the schedgrid booking grid.
//
// # Overview
//
// A scheduling grid shows resources (aircraft, instructors, rooms) as rows
// and time of day as the horizontal axis. Schedgrid computes everything a
// host needs to draw and edit such a grid: which lane each booking occupies,
// where each row sits, which rows are on screen, which bookings belong in
// which cell, and how a pointer gesture turns into a move or resize. The pkg
// directory is organized into three areas:
//
//  1. Layout - pure computations over one dataset snapshot
//  2. Interaction - the pointer state machine and the engine that hosts it
//  3. Infrastructure - configuration, sources, caching, errors, hooks, HTTP
//
// # Architecture
//
// The typical data flow:
//
//	Dataset (file or MongoDB)
//	         ↓
//	    [index] (date × resource cells)  +  [lanes] (lane per booking)
//	         ↓
//	    [rows] (positioned headers and resource rows)
//	         ↓
//	    [virtual] (rows inside the viewport)
//	         ↓
//	    [grid] snapshot  ←→  [interaction] pointer session
//
// [grid] ties the stages together and recomputes a stage only when one of
// its inputs changed.
//
// # Quick Start
//
//	ds, _ := booking.ReadFile("flightschool.toml")
//	engine := grid.New(ds, config.Default(), grid.WithView(booking.ViewWeek, monday))
//
//	snap := engine.Snapshot(0, 600) // rows, visible window, placed bookings
//
//	engine.PointerDown("b1", interaction.EdgeNone, interaction.Point{X: 120, Y: 40})
//	engine.PointerMove(interaction.Point{X: 165, Y: 80})
//	ev, _, _ := engine.PointerUp(interaction.Point{X: 165, Y: 80})
//	// ev.Kind == interaction.EventDragCommit, applied to engine.Dataset()
//
// # Main Packages
//
// ## Layout
//
// [booking] - Bookings, resources, groups and datasets; date keys and the
// day/week/month ranges.
//
// [timeaxis] - Minutes-of-day to pixel mapping, snapping and clamping.
//
// [lanes] - Greedy lane packing per resource, a fingerprint-keyed memo cache
// and a Graphviz rendering of the overlap graph.
//
// [rows] - Group ordering, row heights from lane counts, hit-testing.
//
// [virtual] - Visible-range computation with overscan.
//
// [index] - The (date, resource) lookup.
//
// ## Interaction
//
// [interaction] - Pointer session: threshold, drag and resize geometry,
// commit and selection events, per-frame move coalescing.
//
// [grid] - The engine that owns one session and memoizes every stage.
//
// ## Infrastructure
//
// [config] - TOML configuration with defaults and validation.
//
// [source] - Dataset sources (file, MongoDB).
//
// [cache] - Snapshot cache backends (file, Redis, null) and key builders.
//
// [observability] - Hooks for engine, cache and server events.
//
// [server] - HTTP API around one engine.
//
// [errors] - Structured error codes.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/lanes/...    # Specific package
//	go test -run Example ./... # Examples only
//
// [booking]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/booking
// [timeaxis]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/timeaxis
// [lanes]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/lanes
// [rows]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/rows
// [virtual]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/virtual
// [index]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/index
// [interaction]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/interaction
// [grid]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/grid
// [config]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/config
// [source]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/observability
// [server]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/schedgrid/pkg/errors
package pkg
