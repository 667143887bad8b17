package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/CoderPush/pulse-sub001/core/submission"
)

type submissionRepository struct {
	db *submissionTable
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db.submission}
}

func (repo *submissionRepository) query() []submission.Submission {
	subs := make([]submission.Submission, 0, len(repo.db.table))
	for _, sub := range repo.db.table {
		subs = append(subs, *sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		si, sj := subs[i], subs[j]
		if si.Year != sj.Year {
			return si.Year < sj.Year
		}
		if si.WeekNumber != sj.WeekNumber {
			return si.WeekNumber < sj.WeekNumber
		}
		return si.SubmittedAt.Time.Before(sj.SubmittedAt.Time)
	})
	return subs
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.UserID == sub.UserID && existing.Year == sub.Year && existing.WeekNumber == sub.WeekNumber {
			return submission.Submission{}, submission.ErrAlreadySubmitted
		}
	}
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) GetSubmission(ctx context.Context, userID string, year, weekNum int) (submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sub := range repo.db.table {
		if sub.UserID == userID && sub.Year == year && sub.WeekNumber == weekNum {
			return *sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) QuerySubmissions(ctx context.Context, filter submission.QueryFilter) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var subs []submission.Submission
	for _, sub := range repo.query() {
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

func (repo *submissionRepository) DeleteSubmissionsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *submissionRepository) CreateDailyReport(ctx context.Context, rep submission.DailyReport) (submission.DailyReport, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.daily {
		if existing.UserID == rep.UserID && existing.Date.Equal(rep.Date) {
			return submission.DailyReport{}, submission.ErrDailyExists
		}
	}
	repo.db.daily[rep.ID] = &rep
	return rep, nil
}

func (repo *submissionRepository) QueryDailyReports(ctx context.Context, userID string, from, to time.Time) ([]submission.DailyReport, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var reps []submission.DailyReport
	for _, rep := range repo.db.daily {
		if rep.UserID != userID {
			continue
		}
		if rep.Date.Before(from) || rep.Date.After(to) {
			continue
		}
		reps = append(reps, *rep)
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i].Date.Before(reps[j].Date) })
	return reps, nil
}
