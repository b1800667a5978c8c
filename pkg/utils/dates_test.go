package utils

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddCalendarMonths_Plain(t *testing.T) {
	got := AddCalendarMonths(date(2024, time.March, 15), 1)
	want := date(2024, time.April, 15)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAddCalendarMonths_ClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		start  time.Time
		months int
		want   time.Time
	}{
		{date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{date(2024, time.March, 31), 1, date(2024, time.April, 30)},
		{date(2024, time.October, 31), 4, date(2025, time.February, 28)},
	}
	for _, tc := range cases {
		got := AddCalendarMonths(tc.start, tc.months)
		if !got.Equal(tc.want) {
			t.Errorf("AddCalendarMonths(%v, %d) = %v, want %v", tc.start, tc.months, got, tc.want)
		}
	}
}

func TestAddCalendarMonths_YearRollover(t *testing.T) {
	got := AddCalendarMonths(date(2024, time.December, 15), 1)
	want := date(2025, time.January, 15)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAddCalendarYears_LeapDayClamps(t *testing.T) {
	got := AddCalendarYears(date(2024, time.February, 29), 1)
	want := date(2025, time.February, 28)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAddCalendarMonths_KeepsTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.May, 3, 14, 30, 12, 0, time.UTC)
	got := AddCalendarMonths(start, 1)
	if got.Hour() != 14 || got.Minute() != 30 || got.Second() != 12 {
		t.Errorf("time of day changed: %v", got)
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, time.August, 14, 23, 59, 59, 123, time.FixedZone("X", 3600))
	got := DateOnly(in)
	want := date(2024, time.August, 14)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
