package timeaxis

import (
	"math"
	"testing"
)

var axis = Axis{DayStartHour: 7, DayEndHour: 19, HourWidth: 60}

func TestMinutesToPosition(t *testing.T) {
	tests := []struct {
		minutes int
		want    float64
	}{
		{420, 0},
		{540, 120},
		{1140, 720},
		{360, -60},
		{1200, 780},
	}

	for _, tt := range tests {
		if got := axis.MinutesToPosition(tt.minutes); got != tt.want {
			t.Errorf("MinutesToPosition(%d) = %v, want %v", tt.minutes, got, tt.want)
		}
	}
}

func TestPositionToMinutes(t *testing.T) {
	tests := []struct {
		px   float64
		want int
	}{
		{0, 420},
		{167, 587},
		{0.4, 420},
		{0.6, 421},
		{-30, 390},
	}

	for _, tt := range tests {
		if got := axis.PositionToMinutes(tt.px); got != tt.want {
			t.Errorf("PositionToMinutes(%v) = %d, want %d", tt.px, got, tt.want)
		}
	}

	flat := Axis{DayStartHour: 7, DayEndHour: 19}
	if got := flat.PositionToMinutes(100); got != 420 {
		t.Errorf("zero-width PositionToMinutes = %d, want 420", got)
	}
}

func TestRoundTrip(t *testing.T) {
	// 90px per hour: one pixel is 2/3 of a minute, so every minute is exact
	// after rounding.
	axes := []Axis{
		axis,
		{DayStartHour: 0, DayEndHour: 24, HourWidth: 90},
		{DayStartHour: 6, DayEndHour: 22, HourWidth: 120},
	}
	for _, a := range axes {
		for m := -120; m <= 1560; m++ {
			if got := a.PositionToMinutes(a.MinutesToPosition(m)); got != m {
				t.Fatalf("axis %+v: round trip of %d = %d", a, m, got)
			}
		}
	}
}

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		minutes, interval, want int
	}{
		{587, 15, 585},
		{592, 15, 585},
		{593, 15, 600},
		{545, 15, 540},
		{540, 15, 540},
		{7, 0, 0},
		{8, -5, 15},
		{-8, 15, -15},
		{44, 30, 30},
		{45, 30, 60},
	}

	for _, tt := range tests {
		got := SnapToGrid(tt.minutes, tt.interval)
		if got != tt.want {
			t.Errorf("SnapToGrid(%d, %d) = %d, want %d", tt.minutes, tt.interval, got, tt.want)
		}
		if again := SnapToGrid(got, tt.interval); again != got {
			t.Errorf("SnapToGrid not idempotent: %d -> %d", got, again)
		}
	}
}

func TestSnapIdempotent(t *testing.T) {
	for _, interval := range []int{5, 10, 15, 30, 60} {
		for m := -500; m < 2000; m++ {
			s := SnapToGrid(m, interval)
			if SnapToGrid(s, interval) != s {
				t.Fatalf("interval %d: snap(snap(%d)) != snap(%d)", interval, m, m)
			}
			if s%interval != 0 {
				t.Fatalf("interval %d: snap(%d) = %d not aligned", interval, m, s)
			}
		}
	}
}

func TestClampMinutes(t *testing.T) {
	inputs := []int{math.MinInt32, -1, 0, 419, 420, 600, 1140, 1141, math.MaxInt32}
	for _, m := range inputs {
		got := ClampMinutes(m, 7, 19)
		if got < 420 || got > 1140 {
			t.Errorf("ClampMinutes(%d) = %d escapes [420,1140]", m, got)
		}
	}
	if got := axis.Clamp(600); got != 600 {
		t.Errorf("Clamp(600) = %d, want 600", got)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[int]string{
		0:    "00:00",
		585:  "09:45",
		1439: "23:59",
		1440: "00:00",
		-15:  "23:45",
	}
	for in, want := range tests {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}
