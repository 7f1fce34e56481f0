// Package timeaxis converts between minutes-of-day and horizontal pixel
// positions on the scheduling grid.
//
// Every function is total. Values outside the visible day are valid inputs
// and produce positions left of zero or past the right edge; clamping is an
// explicit, separate step ([Axis.Clamp]).
package timeaxis

import "math"

// DefaultSnapInterval is the snap granularity in minutes used when a
// non-positive interval is supplied.
const DefaultSnapInterval = 15

// Axis describes the horizontal time scale of one day column.
type Axis struct {
	DayStartHour int
	DayEndHour   int
	HourWidth    float64 // pixels per hour
}

// DayStart returns the first visible minute of the day.
func (a Axis) DayStart() int { return a.DayStartHour * 60 }

// DayEnd returns the last visible minute of the day.
func (a Axis) DayEnd() int { return a.DayEndHour * 60 }

// Width returns the pixel width of the visible day.
func (a Axis) Width() float64 { return a.MinutesToPosition(a.DayEnd()) }

// MinutesToPosition maps a minute of day to its x offset from the left edge
// of the visible day.
func (a Axis) MinutesToPosition(minutes int) float64 {
	return float64(minutes-a.DayStart()) / 60 * a.HourWidth
}

// PositionToMinutes maps an x offset back to the nearest whole minute.
// A zero hour width maps every position to the day start.
func (a Axis) PositionToMinutes(px float64) int {
	if a.HourWidth == 0 {
		return a.DayStart()
	}
	return int(math.Round(px/a.HourWidth*60)) + a.DayStart()
}

// Clamp restricts minutes to the visible day.
func (a Axis) Clamp(minutes int) int {
	return ClampMinutes(minutes, a.DayStartHour, a.DayEndHour)
}

// SnapToGrid rounds minutes to the nearest multiple of interval. Ties round
// away from zero. A non-positive interval uses [DefaultSnapInterval].
func SnapToGrid(minutes, interval int) int {
	if interval <= 0 {
		interval = DefaultSnapInterval
	}
	return int(math.Round(float64(minutes)/float64(interval))) * interval
}

// ClampMinutes restricts minutes to [dayStartHour*60, dayEndHour*60].
func ClampMinutes(minutes, dayStartHour, dayEndHour int) int {
	lo, hi := dayStartHour*60, dayEndHour*60
	if minutes < lo {
		return lo
	}
	if minutes > hi {
		return hi
	}
	return minutes
}

// FormatMinutes renders minutes of day as "HH:MM". Negative values and values
// past midnight are wrapped into the day.
func FormatMinutes(minutes int) string {
	m := ((minutes % 1440) + 1440) % 1440
	h := m / 60
	mm := m % 60
	return string([]byte{byte('0' + h/10), byte('0' + h%10), ':', byte('0' + mm/10), byte('0' + mm%10)})
}
