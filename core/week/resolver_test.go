package week

import (
	"testing"
	"time"
)

func TestCurrentReporting(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		// ISO week 16 of 2025: Mon Apr 14 - Sun Apr 20, Thursday Apr 17.
		{name: "thursday", now: date(2025, time.April, 17), want: 16},
		{name: "friday", now: date(2025, time.April, 18), want: 16},
		{name: "saturday", now: date(2025, time.April, 19), want: 16},
		{name: "sunday", now: date(2025, time.April, 20), want: 16},
		{name: "next monday still previous cycle", now: date(2025, time.April, 21), want: 16},
		{name: "next tuesday still previous cycle", now: date(2025, time.April, 22), want: 16},
		{name: "next wednesday still previous cycle", now: date(2025, time.April, 23), want: 16},
		{name: "next thursday rolls over", now: date(2025, time.April, 24), want: 17},

		// year boundary: most recent Thursday before Jan 1-3 2024 is Dec 28 2023
		{name: "jan 1 resolves to last year's week", now: date(2024, time.January, 1), want: 52},
		{name: "jan 2 resolves to last year's week", now: date(2024, time.January, 2), want: 52},
		{name: "jan 3 resolves to last year's week", now: date(2024, time.January, 3), want: 52},
		{name: "jan 4 thursday starts week 1", now: date(2024, time.January, 4), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentReporting(tt.now); got != tt.want {
				t.Errorf("CurrentReporting(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

// The resolver output must change exactly once per ISO week, on Thursday.
func TestCurrentReporting_changesOnThursdayOnly(t *testing.T) {
	d := date(2023, time.November, 1)
	end := date(2024, time.March, 1)
	prev := CurrentReporting(d)
	for d = d.AddDate(0, 0, 1); d.Before(end); d = d.AddDate(0, 0, 1) {
		got := CurrentReporting(d)
		if changed := got != prev; changed != (d.Weekday() == time.Thursday) {
			t.Errorf("CurrentReporting changed=%v on %v (%v)", changed, d, d.Weekday())
		}
		prev = got
	}
}

func TestCurrentReportingRef(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want Ref
	}{
		{name: "mid-year", now: date(2025, time.April, 18), want: Ref{Year: 2025, Week: 16}},
		{name: "year boundary keeps previous year", now: date(2024, time.January, 2), want: Ref{Year: 2023, Week: 52}},
		{name: "first thursday of the year", now: date(2024, time.January, 4), want: Ref{Year: 2024, Week: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentReportingRef(tt.now); got != tt.want {
				t.Errorf("CurrentReportingRef(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
