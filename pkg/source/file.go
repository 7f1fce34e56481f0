package source

import (
	"context"

	"github.com/matzehuels/schedgrid/pkg/booking"
)

// File reads a JSON or TOML dataset file on every Load.
type File struct {
	path string
}

// NewFile returns a file source for path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads and validates the file.
func (f *File) Load(ctx context.Context) (*booking.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return booking.ReadFile(f.path)
}

// Kind returns "file".
func (f *File) Kind() string { return "file" }

// Ref returns the file path.
func (f *File) Ref() string { return f.path }

// Close does nothing.
func (f *File) Close(context.Context) error { return nil }

var _ Source = (*File)(nil)
