package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/CoderPush/pulse-sub001/core/week"
)

type weekRow struct {
	Year              int       `db:"year"`
	WeekNumber        int       `db:"week_number"`
	Start             time.Time `db:"start_date"`
	End               time.Time `db:"end_date"`
	SubmissionStart   time.Time `db:"submission_start"`
	SubmissionEnd     time.Time `db:"submission_end"`
	LateSubmissionEnd time.Time `db:"late_submission_end"`
}

func (r weekRow) toWindow() week.Window {
	return week.Window{
		Year:              r.Year,
		WeekNumber:        r.WeekNumber,
		Start:             r.Start.UTC(),
		End:               r.End.UTC(),
		SubmissionStart:   r.SubmissionStart.UTC(),
		SubmissionEnd:     r.SubmissionEnd.UTC(),
		LateSubmissionEnd: r.LateSubmissionEnd.UTC(),
	}
}

type weekRepository struct {
	db *sqlx.DB
}

var _ week.Repository = (*weekRepository)(nil) // interface compliance check

func NewWeekRepository(db *sqlx.DB) week.Repository {
	return &weekRepository{db: db}
}

// CreateWeeks inserts the given windows, skipping those already generated.
func (repo *weekRepository) CreateWeeks(ctx context.Context, windows ...week.Window) error {
	if len(windows) == 0 {
		return nil
	}
	q := `INSERT INTO week (year, week_number, start_date, end_date, submission_start, submission_end, late_submission_end)
		VALUES (:year, :week_number, :start_date, :end_date, :submission_start, :submission_end, :late_submission_end)
		ON CONFLICT (year, week_number) DO NOTHING`

	rows := make([]weekRow, 0, len(windows))
	for _, win := range windows {
		rows = append(rows, weekRow{
			Year:              win.Year,
			WeekNumber:        win.WeekNumber,
			Start:             win.Start,
			End:               win.End,
			SubmissionStart:   win.SubmissionStart,
			SubmissionEnd:     win.SubmissionEnd,
			LateSubmissionEnd: win.LateSubmissionEnd,
		})
	}
	if _, err := repo.db.NamedExecContext(ctx, q, rows); err != nil {
		return errors.Wrap(err, "creating weeks")
	}
	return nil
}

func (repo *weekRepository) GetWeek(ctx context.Context, year, weekNum int) (week.Window, error) {
	var row weekRow
	q := `SELECT * FROM week WHERE year = $1 AND week_number = $2`
	if err := repo.db.GetContext(ctx, &row, q, year, weekNum); err != nil {
		if err == sql.ErrNoRows {
			return week.Window{}, week.ErrNotFound
		}
		return week.Window{}, errors.Wrap(err, "getting week")
	}
	return row.toWindow(), nil
}

func (repo *weekRepository) QueryWeeksByYear(ctx context.Context, year int) ([]week.Window, error) {
	var rows []weekRow
	q := `SELECT * FROM week WHERE year = $1 ORDER BY week_number`
	if err := repo.db.SelectContext(ctx, &rows, q, year); err != nil {
		return nil, errors.Wrap(err, "querying weeks")
	}
	windows := make([]week.Window, 0, len(rows))
	for _, row := range rows {
		windows = append(windows, row.toWindow())
	}
	return windows, nil
}
