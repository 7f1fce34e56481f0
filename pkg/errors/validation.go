package errors

import (
	"strings"
	"time"
	"unicode"
)

// DateKeyLayout is the layout of the date keys used by bookings and the
// booking index ("2026-02-16").
const DateKeyLayout = "2006-01-02"

// ValidateID validates a booking, resource, or group identifier.
// Identifiers become part of index keys ("date:resource"), so a colon is
// rejected along with control characters.
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidDataset, "%s id cannot be empty", kind)
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidDataset, "%s id too long (max 256 characters)", kind)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "%s id %q contains control characters", kind, id)
		}
	}

	if strings.Contains(id, ":") {
		return New(ErrCodeInvalidDataset, "%s id %q cannot contain ':'", kind, id)
	}

	return nil
}

// ValidateDateKey checks that key is a calendar date in YYYY-MM-DD form.
func ValidateDateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidDateKey, "date key cannot be empty")
	}
	if _, err := time.Parse(DateKeyLayout, key); err != nil {
		return Wrap(ErrCodeInvalidDateKey, err, "invalid date key %q", key)
	}
	return nil
}

// ValidateHourRange validates a visible day window.
func ValidateHourRange(start, end int) error {
	if start < 0 || start > 23 {
		return New(ErrCodeInvalidConfig, "day_start_hour %d out of range [0,23]", start)
	}
	if end < 1 || end > 24 {
		return New(ErrCodeInvalidConfig, "day_end_hour %d out of range [1,24]", end)
	}
	if end <= start {
		return New(ErrCodeInvalidConfig, "day_end_hour %d must exceed day_start_hour %d", end, start)
	}
	return nil
}
