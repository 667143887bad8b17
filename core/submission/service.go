package submission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/volatiletech/null/v8"

	"github.com/CoderPush/pulse-sub001/core"
	"github.com/CoderPush/pulse-sub001/core/user"
	"github.com/CoderPush/pulse-sub001/core/week"
)

var (
	// errors
	ErrNotFound         = errors.New("submission not found")
	ErrAlreadySubmitted = errors.New("a report for this week was already submitted")
	ErrWindowClosed     = errors.New("the submission window for this week has closed")
	ErrDailyExists      = errors.New("a daily report for this date already exists")
)

type (
	Repository interface {
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmission(ctx context.Context, userID string, year, weekNum int) (Submission, error)
		// QuerySubmissions applies AND operation on available QueryFilter fields,
		// ordered by (year, week_number, submitted_at).
		QuerySubmissions(ctx context.Context, filter QueryFilter) ([]Submission, error)
		DeleteSubmissionsByID(ctx context.Context, ids ...string) error

		CreateDailyReport(ctx context.Context, rep DailyReport) (DailyReport, error)
		QueryDailyReports(ctx context.Context, userID string, from, to time.Time) ([]DailyReport, error)
	}

	Service interface {
		// Create files the current reporting week's report for a user. The
		// target week is resolved from the reporting calendar; submissions
		// after the week's late deadline are rejected with ErrWindowClosed.
		Create(ctx context.Context, usr user.User, ns NewSubmission) (Submission, error)
		Get(ctx context.Context, userID string, year, weekNum int) (Submission, error)
		Query(ctx context.Context, filter QueryFilter) ([]Submission, error)
		ForUserYear(ctx context.Context, userID string, year int) ([]Submission, error)
		Delete(ctx context.Context, ids ...string) error

		// MissingForWeek returns the subset of users without a submission for
		// the given week, i.e. reminder email targets.
		MissingForWeek(ctx context.Context, users []user.User, year, weekNum int) ([]user.User, error)

		CreateDaily(ctx context.Context, usr user.User, nd NewDailyReport) (DailyReport, error)
		DailyForUser(ctx context.Context, userID string, from, to time.Time) ([]DailyReport, error)
	}

	service struct {
		repo  Repository
		clock clock.Clock
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, clk clock.Clock) Service {
	return &service{
		repo:  repo,
		clock: clk,
	}
}

func (svc *service) Create(ctx context.Context, usr user.User, ns NewSubmission) (Submission, error) {
	now := svc.clock.Now().UTC()
	ref := week.CurrentReportingRef(now)

	win, err := week.NewWindow(ref.Year, ref.Week)
	if err != nil {
		return Submission{}, err
	}
	if now.After(win.LateSubmissionEnd) {
		return Submission{}, ErrWindowClosed
	}
	status := StatusOnTime
	if now.After(win.SubmissionEnd) {
		status = StatusLate
	}

	if _, err := svc.repo.GetSubmission(ctx, usr.ID, ref.Year, ref.Week); err == nil {
		return Submission{}, core.NewValidationError(
			ErrAlreadySubmitted, core.FieldError{Field: "week_number", Error: ErrAlreadySubmitted.Error()})
	} else if err != ErrNotFound {
		return Submission{}, err
	}

	sub := Submission{
		ID:          uuid.New().String(),
		UserID:      usr.ID,
		Year:        ref.Year,
		WeekNumber:  ref.Week,
		Hours:       ns.Hours,
		Projects:    ns.Projects,
		Status:      status,
		SubmittedAt: null.TimeFrom(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if ns.ManagerName != "" {
		sub.ManagerName = null.StringFrom(ns.ManagerName)
	}
	if ns.Notes != "" {
		sub.Notes = null.StringFrom(ns.Notes)
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

func (svc *service) Get(ctx context.Context, userID string, year, weekNum int) (Submission, error) {
	return svc.repo.GetSubmission(ctx, userID, year, weekNum)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Submission, error) {
	return svc.repo.QuerySubmissions(ctx, filter)
}

func (svc *service) ForUserYear(ctx context.Context, userID string, year int) ([]Submission, error) {
	return svc.repo.QuerySubmissions(ctx, QueryFilter{UserID: userID, Year: year})
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSubmissionsByID(ctx, ids...)
}

func (svc *service) MissingForWeek(ctx context.Context, users []user.User, year, weekNum int) ([]user.User, error) {
	subs, err := svc.repo.QuerySubmissions(ctx, QueryFilter{Year: year, WeekNumber: weekNum})
	if err != nil {
		return nil, err
	}
	submitted := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		submitted[sub.UserID] = struct{}{}
	}

	var missing []user.User
	for _, usr := range users {
		if !usr.IsActive {
			continue
		}
		if _, ok := submitted[usr.ID]; !ok {
			missing = append(missing, usr)
		}
	}
	return missing, nil
}

func (svc *service) CreateDaily(ctx context.Context, usr user.User, nd NewDailyReport) (DailyReport, error) {
	now := svc.clock.Now().UTC()
	date := nd.Date.UTC()
	rep := DailyReport{
		ID:        uuid.New().String(),
		UserID:    usr.ID,
		Date:      time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Hours:     nd.Hours,
		CreatedAt: now,
	}
	if nd.Note != "" {
		rep.Note = null.StringFrom(nd.Note)
	}
	return svc.repo.CreateDailyReport(ctx, rep)
}

func (svc *service) DailyForUser(ctx context.Context, userID string, from, to time.Time) ([]DailyReport, error) {
	return svc.repo.QueryDailyReports(ctx, userID, from, to)
}
