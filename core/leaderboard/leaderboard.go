// Package leaderboard ranks users by submission streaks and by submission
// speed. All functions are pure: callers fetch users, submissions and weeks
// and pass them in; nothing here touches storage.
package leaderboard

import (
	"sort"
	"strings"

	"github.com/CoderPush/pulse-sub001/core/submission"
	"github.com/CoderPush/pulse-sub001/core/user"
	"github.com/CoderPush/pulse-sub001/core/week"
)

// Size is the number of leaderboard rows returned; the requesting user's own
// row is appended as one extra when they rank below the cut.
const Size = 10

// Config carries the streak policy: StartWeek is the first week ever counted
// and ExcludedWeeks are waived weeks, skipped entirely regardless of
// submission state.
type Config struct {
	StartWeek     int
	ExcludedWeeks []week.Ref
}

// Snapshot is the in-memory state the rankings are computed over.
// Submissions and Weeks both cover CurrentYear only.
type Snapshot struct {
	Users         []user.User
	Submissions   []submission.Submission
	Weeks         []week.Window
	CurrentYear   int
	CurrentWeek   int
	CurrentUserID string
}

// Entry is one leaderboard row, ready for JSON serialization.
// Rank is the position before the top-10 cut, so an appended self row keeps
// its true rank. Streak is only populated in streaks mode.
type Entry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Streak        int    `json:"streak"`
	Rank          int    `json:"rank"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// Streaks ranks users by their longest run of consecutive eligible weeks with
// a submission. The longest run anywhere in the eligible range counts, not
// just the trailing one, to reward any strong consecutive run.
//
// Ties break by: earlier current-week submission (submitted beats absent),
// then earlier previous-week submission, then display name.
func Streaks(snap Snapshot, cfg Config) []Entry {
	eligible := eligibleWeeks(snap, cfg)
	byUser := submissionsByUser(snap.Submissions)

	prevWeek := snap.CurrentWeek - 1
	if snap.CurrentWeek == 1 {
		// the snapshot holds one year only, so week 52 stands in for the
		// previous year's last week
		prevWeek = 52
	}

	entries := make([]Entry, 0, len(snap.Users))
	for _, usr := range snap.Users {
		entries = append(entries, Entry{
			ID:            usr.ID,
			Name:          usr.DisplayName(),
			Streak:        maxStreak(eligible, byUser[usr.ID]),
			IsCurrentUser: usr.ID == snap.CurrentUserID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Streak != b.Streak {
			return a.Streak > b.Streak
		}
		if c := compareWeekSubmission(byUser[a.ID][snap.CurrentWeek], byUser[b.ID][snap.CurrentWeek]); c != 0 {
			return c < 0
		}
		if c := compareWeekSubmission(byUser[a.ID][prevWeek], byUser[b.ID][prevWeek]); c != 0 {
			return c < 0
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return truncate(entries, snap.CurrentUserID)
}

// Fastest ranks the current week's submissions by submission time, earliest
// first.
func Fastest(snap Snapshot) []Entry {
	byID := make(map[string]user.User, len(snap.Users))
	for _, usr := range snap.Users {
		byID[usr.ID] = usr
	}

	subs := make([]submission.Submission, 0, len(snap.Submissions))
	for _, sub := range snap.Submissions {
		if sub.Year != snap.CurrentYear || sub.WeekNumber != snap.CurrentWeek || !sub.SubmittedAt.Valid {
			continue
		}
		if _, ok := byID[sub.UserID]; !ok {
			continue
		}
		subs = append(subs, sub)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		a, b := subs[i], subs[j]
		if !a.SubmittedAt.Time.Equal(b.SubmittedAt.Time) {
			return a.SubmittedAt.Time.Before(b.SubmittedAt.Time)
		}
		usrA, usrB := byID[a.UserID], byID[b.UserID]
		return strings.ToLower(usrA.DisplayName()) < strings.ToLower(usrB.DisplayName())
	})

	entries := make([]Entry, 0, len(subs))
	for i, sub := range subs {
		usr := byID[sub.UserID]
		entries = append(entries, Entry{
			ID:            usr.ID,
			Name:          usr.DisplayName(),
			Rank:          i + 1,
			IsCurrentUser: usr.ID == snap.CurrentUserID,
		})
	}

	return truncate(entries, snap.CurrentUserID)
}

// eligibleWeeks filters the generated weeks down to the streak range
// [StartWeek, CurrentWeek] minus excluded weeks, ascending.
func eligibleWeeks(snap Snapshot, cfg Config) []int {
	excluded := make(map[week.Ref]struct{}, len(cfg.ExcludedWeeks))
	for _, ref := range cfg.ExcludedWeeks {
		excluded[ref] = struct{}{}
	}

	weeks := make([]int, 0, len(snap.Weeks))
	for _, w := range snap.Weeks {
		if w.WeekNumber < cfg.StartWeek || w.WeekNumber > snap.CurrentWeek {
			continue
		}
		if _, ok := excluded[week.Ref{Year: snap.CurrentYear, Week: w.WeekNumber}]; ok {
			continue
		}
		weeks = append(weeks, w.WeekNumber)
	}
	sort.Ints(weeks)
	return weeks
}

// submissionsByUser indexes submissions by user then week, keeping the
// earliest submission when the store holds duplicates for a week.
func submissionsByUser(subs []submission.Submission) map[string]map[int]*submission.Submission {
	byUser := make(map[string]map[int]*submission.Submission)
	for i := range subs {
		sub := &subs[i]
		weeks, ok := byUser[sub.UserID]
		if !ok {
			weeks = make(map[int]*submission.Submission)
			byUser[sub.UserID] = weeks
		}
		if prev, ok := weeks[sub.WeekNumber]; ok {
			if prev.SubmittedAt.Valid &&
				(!sub.SubmittedAt.Valid || prev.SubmittedAt.Time.Before(sub.SubmittedAt.Time)) {
				continue
			}
		}
		weeks[sub.WeekNumber] = sub
	}
	return byUser
}

// maxStreak walks the eligible weeks in order, tracking the longest
// consecutive run of submitted weeks.
func maxStreak(eligible []int, submitted map[int]*submission.Submission) int {
	var cur, max int
	for _, wk := range eligible {
		if _, ok := submitted[wk]; ok {
			cur++
			if cur > max {
				max = cur
			}
		} else {
			cur = 0
		}
	}
	return max
}

// compareWeekSubmission orders two users by their submission for one week:
// earlier submission first, any submission before none, equal otherwise.
func compareWeekSubmission(a, b *submission.Submission) int {
	aOK := a != nil && a.SubmittedAt.Valid
	bOK := b != nil && b.SubmittedAt.Valid
	switch {
	case aOK && bOK:
		if a.SubmittedAt.Time.Before(b.SubmittedAt.Time) {
			return -1
		}
		if b.SubmittedAt.Time.Before(a.SubmittedAt.Time) {
			return 1
		}
		return 0
	case aOK:
		return -1
	case bOK:
		return 1
	default:
		return 0
	}
}

// truncate keeps the top Size entries and appends the requesting user's own
// row when it fell below the cut, so users always see their own standing.
func truncate(entries []Entry, currentUserID string) []Entry {
	if len(entries) <= Size {
		return entries
	}
	top := entries[:Size:Size]
	if currentUserID == "" {
		return top
	}
	for _, e := range top {
		if e.ID == currentUserID {
			return top
		}
	}
	for _, e := range entries[Size:] {
		if e.ID == currentUserID {
			return append(top, e)
		}
	}
	return top
}
