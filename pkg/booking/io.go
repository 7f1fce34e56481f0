package booking

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/schedgrid/pkg/errors"
)

// ReadJSON decodes a JSON dataset from r and validates it.
//
// The input must be an object with "bookings" and "resources" arrays and an
// optional "groups" array:
//
//	{
//	  "resources": [{"id": "ac-1", "name": "D-EABC", "group_id": "aircraft"}],
//	  "groups":    [{"id": "aircraft", "label": "Aircraft"}],
//	  "bookings":  [{"id": "b1", "resource_id": "ac-1", "date": "2026-02-16",
//	                 "start": 540, "end": 600, "title": "Circuits"}]
//	}
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json dataset")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadTOML decodes a TOML dataset ([[bookings]], [[resources]], [[groups]]
// tables) from r and validates it.
func ReadTOML(r io.Reader) (*Dataset, error) {
	var d Dataset
	if _, err := toml.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml dataset")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadFile loads a dataset, picking the decoder from the file extension
// (.toml, otherwise JSON).
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ReadTOML(f)
	}
	return ReadJSON(f)
}

// WriteJSON encodes d as indented JSON. The output can be re-read with
// [ReadJSON].
func WriteJSON(d *Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteFile writes d to path as JSON.
func WriteFile(d *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	if err := WriteJSON(d, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
