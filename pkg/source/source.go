// Package source loads booking datasets from where hosts keep them.
//
// A [Source] returns one validated [booking.Dataset] snapshot per call.
// Sources only read; commits made in the grid replace the in-memory
// snapshot and are never written back.
package source

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/config"
	"github.com/matzehuels/schedgrid/pkg/errors"
)

// Source loads a dataset.
type Source interface {
	// Load reads and validates the current dataset.
	Load(ctx context.Context) (*booking.Dataset, error)

	// Kind returns the source kind ("file", "mongo").
	Kind() string

	// Ref identifies the data inside the source kind: a path or a
	// database/collection name. Together with Kind it keys cached datasets.
	Ref() string

	// Close releases connections.
	Close(ctx context.Context) error
}

// Open builds the source described by cfg.
func Open(ctx context.Context, cfg config.Source, logger *log.Logger) (Source, error) {
	if logger == nil {
		logger = log.Default()
	}
	switch cfg.Kind {
	case config.SourceFile, "":
		if cfg.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "no dataset file given")
		}
		return NewFile(cfg.Path), nil
	case config.SourceMongo:
		return NewMongo(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		}, logger)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown source kind %q", cfg.Kind)
}
