package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/CoderPush/pulse-sub001/core/submission"
)

type submissionRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Year        int            `db:"year"`
	WeekNumber  int            `db:"week_number"`
	Hours       float64        `db:"hours"`
	ManagerName null.String    `db:"manager_name"`
	Projects    pq.StringArray `db:"projects"`
	Notes       null.String    `db:"notes"`
	Status      string         `db:"status"`
	SubmittedAt null.Time      `db:"submitted_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r submissionRow) toSubmission() submission.Submission {
	sub := submission.Submission{
		ID:          r.ID,
		UserID:      r.UserID,
		Year:        r.Year,
		WeekNumber:  r.WeekNumber,
		Hours:       r.Hours,
		ManagerName: r.ManagerName,
		Projects:    r.Projects,
		Notes:       r.Notes,
		Status:      submission.Status(r.Status),
		SubmittedAt: r.SubmittedAt,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if sub.SubmittedAt.Valid {
		sub.SubmittedAt.Time = sub.SubmittedAt.Time.UTC()
	}
	return sub
}

func toSubmissionRow(sub submission.Submission) submissionRow {
	return submissionRow{
		ID:          sub.ID,
		UserID:      sub.UserID,
		Year:        sub.Year,
		WeekNumber:  sub.WeekNumber,
		Hours:       sub.Hours,
		ManagerName: sub.ManagerName,
		Projects:    sub.Projects,
		Notes:       sub.Notes,
		Status:      string(sub.Status),
		SubmittedAt: sub.SubmittedAt,
		CreatedAt:   sub.CreatedAt,
		UpdatedAt:   sub.UpdatedAt,
	}
}

type dailyReportRow struct {
	ID        string      `db:"id"`
	UserID    string      `db:"user_id"`
	Date      time.Time   `db:"date"`
	Hours     float64     `db:"hours"`
	Note      null.String `db:"note"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r dailyReportRow) toDailyReport() submission.DailyReport {
	return submission.DailyReport{
		ID:        r.ID,
		UserID:    r.UserID,
		Date:      r.Date.UTC(),
		Hours:     r.Hours,
		Note:      r.Note,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) submission.Repository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	q := `INSERT INTO submission (id, user_id, year, week_number, hours, manager_name, projects, notes, status, submitted_at, created_at, updated_at)
		VALUES (:id, :user_id, :year, :week_number, :hours, :manager_name, :projects, :notes, :status, :submitted_at, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, toSubmissionRow(sub)); err != nil {
		if isUniqueViolation(err) {
			return submission.Submission{}, submission.ErrAlreadySubmitted
		}
		return submission.Submission{}, errors.Wrap(err, "creating submission")
	}
	return sub, nil
}

func (repo *submissionRepository) GetSubmission(ctx context.Context, userID string, year, weekNum int) (submission.Submission, error) {
	var row submissionRow
	q := `SELECT * FROM submission WHERE user_id = $1 AND year = $2 AND week_number = $3`
	if err := repo.db.GetContext(ctx, &row, q, userID, year, weekNum); err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, errors.Wrap(err, "getting submission")
	}
	return row.toSubmission(), nil
}

func (repo *submissionRepository) QuerySubmissions(ctx context.Context, filter submission.QueryFilter) ([]submission.Submission, error) {
	var (
		clauses []string
		args    []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.UserID != "" {
		clauses = append(clauses, "user_id = "+arg(filter.UserID))
	}
	if filter.Year != 0 {
		clauses = append(clauses, "year = "+arg(filter.Year))
	}
	if filter.WeekNumber != 0 {
		clauses = append(clauses, "week_number = "+arg(filter.WeekNumber))
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = "+arg(string(filter.Status)))
	}

	q := `SELECT * FROM submission`
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY year, week_number, submitted_at"

	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.toSubmission())
	}
	return subs, nil
}

func (repo *submissionRepository) DeleteSubmissionsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM submission WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting submissions")
	}
	return nil
}

func (repo *submissionRepository) CreateDailyReport(ctx context.Context, rep submission.DailyReport) (submission.DailyReport, error) {
	q := `INSERT INTO daily_report (id, user_id, date, hours, note, created_at)
		VALUES (:id, :user_id, :date, :hours, :note, :created_at)`
	row := dailyReportRow{
		ID:        rep.ID,
		UserID:    rep.UserID,
		Date:      rep.Date,
		Hours:     rep.Hours,
		Note:      rep.Note,
		CreatedAt: rep.CreatedAt,
	}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return submission.DailyReport{}, submission.ErrDailyExists
		}
		return submission.DailyReport{}, errors.Wrap(err, "creating daily report")
	}
	return rep, nil
}

func (repo *submissionRepository) QueryDailyReports(ctx context.Context, userID string, from, to time.Time) ([]submission.DailyReport, error) {
	var rows []dailyReportRow
	q := `SELECT * FROM daily_report WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date`
	if err := repo.db.SelectContext(ctx, &rows, q, userID, from, to); err != nil {
		return nil, errors.Wrap(err, "querying daily reports")
	}
	reps := make([]submission.DailyReport, 0, len(rows))
	for _, row := range rows {
		reps = append(reps, row.toDailyReport())
	}
	return reps, nil
}
