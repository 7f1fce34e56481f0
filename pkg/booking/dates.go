package booking

import (
	"time"

	"github.com/matzehuels/schedgrid/pkg/errors"
)

// View is the calendar span shown by the grid.
type View string

// Supported views.
const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// ParseView validates a view name. An empty string selects [ViewDay].
func ParseView(s string) (View, error) {
	switch View(s) {
	case "":
		return ViewDay, nil
	case ViewDay, ViewWeek, ViewMonth:
		return View(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown view %q (want day, week, or month)", s)
}

// DateKey formats t as a booking date key.
func DateKey(t time.Time) string { return t.Format(errors.DateKeyLayout) }

// ParseDateKey parses a YYYY-MM-DD key as midnight UTC.
func ParseDateKey(key string) (time.Time, error) {
	if err := errors.ValidateDateKey(key); err != nil {
		return time.Time{}, err
	}
	t, _ := time.Parse(errors.DateKeyLayout, key)
	return t, nil
}

// WeekStart returns the Monday on or before t, at midnight in t's location.
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// DateKeys returns the ordered date keys visible in view around anchor:
// the anchor day, the Monday-based week containing it, or its calendar month.
func DateKeys(view View, anchor time.Time) []string {
	var first time.Time
	var days int

	switch view {
	case ViewWeek:
		first, days = WeekStart(anchor), 7
	case ViewMonth:
		first = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		days = daysIn(first)
	default:
		first, days = anchor, 1
	}

	keys := make([]string, days)
	for i := range keys {
		keys[i] = DateKey(first.AddDate(0, 0, i))
	}
	return keys
}

func daysIn(monthStart time.Time) int {
	return monthStart.AddDate(0, 1, -1).Day()
}

// KeySet converts date keys to a lookup set.
func KeySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
