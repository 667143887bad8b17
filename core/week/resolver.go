package week

import "time"

// CurrentReporting returns the week number reports are currently "for".
// The reporting cycle rolls over on Thursday, not at the calendar week
// boundary: the submission window for a week opens on its Friday, so a
// report belongs to the week whose Thursday has most recently passed.
//
// Thu..Sun of ISO week W resolve to W; Mon..Wed of the next ISO week still
// resolve to W. Crossing a year boundary follows the same rule: Jan 1-3 2024
// (Mon-Wed) resolve to week 52 of 2023, Jan 4 2024 (Thursday) to week 1.
func CurrentReporting(now time.Time) int {
	return Number(mostRecentThursday(now))
}

// CurrentReportingRef is CurrentReporting with the ISO year of the resolved
// Thursday, so year-boundary days land in the previous year's last week.
func CurrentReportingRef(now time.Time) Ref {
	thu := mostRecentThursday(now)
	return Ref{Year: Year(thu), Week: Number(thu)}
}

func mostRecentThursday(now time.Time) time.Time {
	dow := int(now.Weekday()) // 0=Sunday .. 6=Saturday
	if dow >= int(time.Thursday) {
		return now.AddDate(0, 0, -(dow - int(time.Thursday)))
	}
	return now.AddDate(0, 0, -(dow + 3)) // back to last Thursday
}
