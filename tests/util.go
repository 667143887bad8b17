// Package testutil provides shared fixture helpers for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/volatiletech/null/v8"

	"github.com/CoderPush/pulse-sub001/core/submission"
	"github.com/CoderPush/pulse-sub001/core/user"
	"github.com/CoderPush/pulse-sub001/core/week"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if email == "" {
		email = gofakeit.Email()
	}
	usr := user.User{
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if name != "" {
		usr.Name = null.StringFrom(name)
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateWeeks(t *testing.T, repo week.Repository, year, from, to int) []week.Window {
	t.Helper()

	windows := make([]week.Window, 0, to-from+1)
	for n := from; n <= to; n++ {
		win, err := week.NewWindow(year, n)
		if err != nil {
			t.Fatalf("CreateWeeks() failed: %v", err)
		}
		windows = append(windows, win)
	}
	if err := repo.CreateWeeks(context.Background(), windows...); err != nil {
		t.Fatalf("CreateWeeks() failed: %v", err)
	}
	return windows
}

func CreateSubmission(
	t *testing.T,
	repo submission.Repository,
	usr user.User,
	year, weekNum int,
	submittedAt time.Time,
) submission.Submission {
	t.Helper()

	sub := submission.Submission{
		ID:          gofakeit.UUID(),
		UserID:      usr.ID,
		Year:        year,
		WeekNumber:  weekNum,
		Hours:       40,
		Status:      submission.StatusOnTime,
		SubmittedAt: null.TimeFrom(submittedAt.UTC()),
		CreatedAt:   submittedAt.UTC(),
		UpdatedAt:   submittedAt.UTC(),
	}
	sub, err := repo.CreateSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}
