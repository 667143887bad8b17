package submission

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/volatiletech/null/v8"

	"github.com/CoderPush/pulse-sub001/core"
	"github.com/CoderPush/pulse-sub001/core/user"
)

// Thursday of ISO week 23, 2025
var testNow = time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	subs  map[string]Submission
	daily map[string]DailyReport
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		subs:  make(map[string]Submission),
		daily: make(map[string]DailyReport),
	}
}

func subKey(userID string, year, weekNum int) string {
	return fmt.Sprintf("%s|%d|%d", userID, year, weekNum)
}

func (r *fakeRepo) CreateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	key := subKey(sub.UserID, sub.Year, sub.WeekNumber)
	if _, ok := r.subs[key]; ok {
		return Submission{}, ErrAlreadySubmitted
	}
	r.subs[key] = sub
	return sub, nil
}

func (r *fakeRepo) GetSubmission(ctx context.Context, userID string, year, weekNum int) (Submission, error) {
	sub, ok := r.subs[subKey(userID, year, weekNum)]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}

func (r *fakeRepo) QuerySubmissions(ctx context.Context, filter QueryFilter) ([]Submission, error) {
	var subs []Submission
	for _, sub := range r.subs {
		if filter.UserID != "" && sub.UserID != filter.UserID {
			continue
		}
		if filter.Year != 0 && sub.Year != filter.Year {
			continue
		}
		if filter.WeekNumber != 0 && sub.WeekNumber != filter.WeekNumber {
			continue
		}
		if filter.Status != "" && sub.Status != filter.Status {
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (r *fakeRepo) DeleteSubmissionsByID(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		for key, sub := range r.subs {
			if sub.ID == id {
				delete(r.subs, key)
			}
		}
	}
	return nil
}

func (r *fakeRepo) CreateDailyReport(ctx context.Context, rep DailyReport) (DailyReport, error) {
	key := rep.UserID + "|" + rep.Date.Format("2006-01-02")
	if _, ok := r.daily[key]; ok {
		return DailyReport{}, ErrDailyExists
	}
	r.daily[key] = rep
	return rep, nil
}

func (r *fakeRepo) QueryDailyReports(ctx context.Context, userID string, from, to time.Time) ([]DailyReport, error) {
	var reps []DailyReport
	for _, rep := range r.daily {
		if rep.UserID != userID {
			continue
		}
		if rep.Date.Before(from) || rep.Date.After(to) {
			continue
		}
		reps = append(reps, rep)
	}
	return reps, nil
}

func newTestService(now time.Time) (Service, *fakeRepo, *clock.Mock) {
	repo := newFakeRepo()
	clk := clock.NewMock()
	clk.Set(now)
	return NewService(repo, clk), repo, clk
}

func Test_service_Create(t *testing.T) {
	ctx := context.Background()
	usr := user.User{ID: "u1", Email: "ann@test.cd", IsActive: true}

	tests := []struct {
		name       string
		now        time.Time
		wantYear   int
		wantWeek   int
		wantStatus Status
		wantErr    error
	}{
		{
			name:       "thursday is on time",
			now:        testNow,
			wantYear:   2025,
			wantWeek:   23,
			wantStatus: StatusOnTime,
		},
		{
			name:       "saturday is on time",
			now:        time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC),
			wantYear:   2025,
			wantWeek:   23,
			wantStatus: StatusOnTime,
		},
		{
			name:       "next monday before 2pm is on time",
			now:        time.Date(2025, 6, 9, 13, 59, 0, 0, time.UTC),
			wantYear:   2025,
			wantWeek:   23,
			wantStatus: StatusOnTime,
		},
		{
			name:       "next monday after 2pm is late",
			now:        time.Date(2025, 6, 9, 15, 0, 0, 0, time.UTC),
			wantYear:   2025,
			wantWeek:   23,
			wantStatus: StatusLate,
		},
		{
			name:       "next tuesday before 5pm is late",
			now:        time.Date(2025, 6, 10, 16, 59, 0, 0, time.UTC),
			wantYear:   2025,
			wantWeek:   23,
			wantStatus: StatusLate,
		},
		{
			name:    "next tuesday after 5pm is rejected",
			now:     time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC),
			wantErr: ErrWindowClosed,
		},
		{
			name:    "next wednesday is rejected",
			now:     time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC),
			wantErr: ErrWindowClosed,
		},
		{
			name:       "next thursday targets the next week",
			now:        time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC),
			wantYear:   2025,
			wantWeek:   24,
			wantStatus: StatusOnTime,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(tt.now)

			sub, err := svc.Create(ctx, usr, NewSubmission{Hours: 40, Projects: []string{"Atlas"}})
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			if sub.Year != tt.wantYear || sub.WeekNumber != tt.wantWeek {
				t.Errorf("Create() week = %d-W%02d, want %d-W%02d", sub.Year, sub.WeekNumber, tt.wantYear, tt.wantWeek)
			}
			if sub.Status != tt.wantStatus {
				t.Errorf("Create() status = %s, want %s", sub.Status, tt.wantStatus)
			}
			if !sub.SubmittedAt.Valid || !sub.SubmittedAt.Time.Equal(tt.now) {
				t.Errorf("Create() submittedAt = %v, want %v", sub.SubmittedAt, tt.now)
			}
		})
	}
}

func Test_service_Create_duplicate(t *testing.T) {
	ctx := context.Background()
	usr := user.User{ID: "u1", Email: "ann@test.cd", IsActive: true}
	svc, _, _ := newTestService(testNow)

	if _, err := svc.Create(ctx, usr, NewSubmission{Hours: 40}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	_, err := svc.Create(ctx, usr, NewSubmission{Hours: 35})
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Create() error = %v, want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "week_number" {
		t.Errorf("Create() fields = %+v, want one error on week_number", vErr.Fields)
	}
}

func Test_service_MissingForWeek(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(testNow)

	ann := user.User{ID: "u1", Email: "ann@test.cd", IsActive: true}
	ben := user.User{ID: "u2", Email: "ben@test.cd", IsActive: true}
	eve := user.User{ID: "u3", Email: "eve@test.cd", IsActive: false}
	users := []user.User{ann, ben, eve}

	if _, err := svc.Create(ctx, ann, NewSubmission{Hours: 40}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	missing, err := svc.MissingForWeek(ctx, users, 2025, 23)
	if err != nil {
		t.Fatalf("MissingForWeek() failed: %v", err)
	}
	if len(missing) != 1 {
		t.Fatalf("len(missing) = %d, want 1", len(missing))
	}
	if missing[0].ID != ben.ID {
		t.Errorf("missing[0].ID = %s, want %s (submitters and inactive users are skipped)", missing[0].ID, ben.ID)
	}
}

func Test_service_CreateDaily(t *testing.T) {
	ctx := context.Background()
	usr := user.User{ID: "u1", Email: "ann@test.cd", IsActive: true}
	svc, _, _ := newTestService(testNow)

	loc := time.FixedZone("ICT", 7*60*60)
	rep, err := svc.CreateDaily(ctx, usr, NewDailyReport{
		Date:  time.Date(2025, 6, 4, 23, 30, 0, 0, loc),
		Hours: 8,
		Note:  "  shipped the importer  ",
	})
	if err != nil {
		t.Fatalf("CreateDaily() failed: %v", err)
	}
	wantDate := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	if !rep.Date.Equal(wantDate) {
		t.Errorf("CreateDaily() date = %v, want UTC midnight %v", rep.Date, wantDate)
	}

	// same calendar date again
	_, err = svc.CreateDaily(ctx, usr, NewDailyReport{
		Date:  time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC),
		Hours: 2,
	})
	if err != ErrDailyExists {
		t.Errorf("CreateDaily() error = %v, want %v", err, ErrDailyExists)
	}
}

func Test_service_ForUserYear(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(testNow)

	for i, key := range []struct {
		user string
		year int
		week int
	}{
		{"u1", 2025, 21},
		{"u1", 2025, 22},
		{"u1", 2024, 50},
		{"u2", 2025, 22},
	} {
		sub := Submission{
			ID:          fmt.Sprintf("s%d", i),
			UserID:      key.user,
			Year:        key.year,
			WeekNumber:  key.week,
			Hours:       40,
			Status:      StatusOnTime,
			SubmittedAt: null.TimeFrom(testNow),
		}
		if _, err := repo.CreateSubmission(ctx, sub); err != nil {
			t.Fatalf("CreateSubmission() failed: %v", err)
		}
	}

	subs, err := svc.ForUserYear(ctx, "u1", 2025)
	if err != nil {
		t.Fatalf("ForUserYear() failed: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("len(subs) = %d, want 2", len(subs))
	}
	for _, sub := range subs {
		if sub.UserID != "u1" || sub.Year != 2025 {
			t.Errorf("ForUserYear() returned %s %d-W%02d", sub.UserID, sub.Year, sub.WeekNumber)
		}
	}
}
