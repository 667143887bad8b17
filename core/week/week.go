// Package week implements the reporting-calendar arithmetic: ISO-8601 week
// numbers, submission windows and the Thursday-based reporting-week rollover.
// Everything here is pure; callers supply "now".
package week

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidWeekNumber = errors.New("week number must be between 1 and 53")

// Window is the Monday..Sunday span of an ISO week plus the derived
// submission deadlines. All timestamps are UTC.
type Window struct {
	Year       int       `json:"year"`
	WeekNumber int       `json:"week_number"`
	Start      time.Time `json:"start_date"`
	End        time.Time `json:"end_date"`

	// SubmissionStart is Friday 17:00 of the week itself; SubmissionEnd is
	// Monday 14:00 of the following week; LateSubmissionEnd is the Tuesday
	// 17:00 after that. Submissions in (SubmissionEnd, LateSubmissionEnd]
	// count as late.
	SubmissionStart   time.Time `json:"submission_start"`
	SubmissionEnd     time.Time `json:"submission_end"`
	LateSubmissionEnd time.Time `json:"late_submission_end"`
}

// Number returns the ISO-8601 week number of t's calendar date.
// The date components are normalized to UTC midnight first so that a
// UTC timestamp and the textually identical local timestamp on the same
// calendar date yield the same week.
func Number(t time.Time) int {
	_, wk := normalize(t).ISOWeek()
	return wk
}

// Year returns the ISO week-numbering year of t's calendar date. It differs
// from t.Year() around January 1st, e.g. 2024-01-01 belongs to ISO year 2024
// week 1 while 2023-12-31 belongs to ISO year 2023 week 52.
func Year(t time.Time) int {
	yr, _ := normalize(t).ISOWeek()
	return yr
}

func normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewWindow computes the Window of the given ISO (year, weekNum).
// January 4 is always in ISO week 1 of its year; the Monday of week 1 is
// resolved from it and every other week is a whole number of weeks away.
func NewWindow(year, weekNum int) (Window, error) {
	if weekNum < 1 || weekNum > 53 {
		return Window{}, ErrInvalidWeekNumber
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	mondayW1 := jan4.AddDate(0, 0, 1-isoWeekday(jan4))
	start := mondayW1.AddDate(0, 0, 7*(weekNum-1))

	return Window{
		Year:              year,
		WeekNumber:        weekNum,
		Start:             start,
		End:               start.AddDate(0, 0, 6),
		SubmissionStart:   at(start.AddDate(0, 0, 4), 17), // Friday 5pm
		SubmissionEnd:     at(start.AddDate(0, 0, 7), 14), // next Monday 2pm
		LateSubmissionEnd: at(start.AddDate(0, 0, 8), 17), // next Tuesday 5pm
	}, nil
}

// isoWeekday maps time.Weekday to ISO numbering: Monday=1 .. Sunday=7.
func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

func at(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
}

// Format renders a week number as "Week NN".
func Format(n int) (string, error) {
	if n < 1 || n > 53 {
		return "", ErrInvalidWeekNumber
	}
	return fmt.Sprintf("Week %02d", n), nil
}

// Ref identifies a week by (ISO year, week number).
type Ref struct {
	Year int `json:"year"`
	Week int `json:"week_number"`
}

func (r Ref) String() string { return fmt.Sprintf("%d-W%02d", r.Year, r.Week) }

// ParseRef parses the ISO-8601 week notation, e.g. "2025-W16".
func ParseRef(s string) (Ref, error) {
	parts := strings.SplitN(s, "-W", 2)
	if len(parts) != 2 {
		return Ref{}, fmt.Errorf("invalid week ref %q, want YYYY-WNN", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Ref{}, fmt.Errorf("invalid year in week ref %q", s)
	}
	wk, err := strconv.Atoi(parts[1])
	if err != nil {
		return Ref{}, fmt.Errorf("invalid week in week ref %q", s)
	}
	if wk < 1 || wk > 53 {
		return Ref{}, ErrInvalidWeekNumber
	}
	return Ref{Year: year, Week: wk}, nil
}
