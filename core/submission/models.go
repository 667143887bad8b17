package submission

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/CoderPush/pulse-sub001/core"
)

// Status of a weekly submission relative to its week's deadlines.
type Status string

const (
	StatusOnTime Status = "on-time"
	StatusLate   Status = "late"
)

// Submission is one user's weekly report. At most one submission exists per
// (user, year, week number); the store enforces this with a unique index.
type Submission struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Year        int         `json:"year"`
	WeekNumber  int         `json:"week_number"`
	Hours       float64     `json:"hours"`
	ManagerName null.String `json:"manager_name"`
	Projects    []string    `json:"projects"`
	Notes       null.String `json:"notes"`
	Status      Status      `json:"status"`
	SubmittedAt null.Time   `json:"submitted_at"` // UTC
	CreatedAt   time.Time   `json:"created_at"`   // UTC
	UpdatedAt   time.Time   `json:"updated_at"`   // UTC
}

// DailyReport is an optional per-day hours log, independent of the weekly cycle.
type DailyReport struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Date      time.Time   `json:"date"` // calendar date, UTC midnight
	Hours     float64     `json:"hours"`
	Note      null.String `json:"note"`
	CreatedAt time.Time   `json:"created_at"` // UTC
}

// NewSubmission contains information needed to file a weekly report.
// The year and week are resolved server-side from the reporting calendar.
type NewSubmission struct {
	Hours       float64  `json:"hours" validate:"required,gt=0,lte=168"`
	ManagerName string   `json:"manager_name"`
	Projects    []string `json:"projects" validate:"omitempty,dive,required"`
	Notes       string   `json:"notes"`
}

func (ns *NewSubmission) Validate() error {
	ns.ManagerName = core.CleanString(ns.ManagerName)
	ns.Notes = core.CleanString(ns.Notes)
	for i, p := range ns.Projects {
		ns.Projects[i] = core.CleanString(p)
	}
	return core.Validate.Struct(ns)
}

// NewDailyReport contains information needed to file a daily report.
type NewDailyReport struct {
	Date  time.Time `json:"date" validate:"required"`
	Hours float64   `json:"hours" validate:"required,gt=0,lte=24"`
	Note  string    `json:"note"`
}

func (nd *NewDailyReport) Validate() error {
	nd.Note = core.CleanString(nd.Note)
	return core.Validate.Struct(nd)
}

// QueryFilter applies AND on set fields.
type QueryFilter struct {
	UserID     string `query:"user_id"`
	Year       int    `query:"year"`
	WeekNumber int    `query:"week" validate:"omitempty,weeknum"`
	Status     Status `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.UserID == "" && qf.Year == 0 && qf.WeekNumber == 0 && qf.Status == ""
}

func (qf *QueryFilter) Validate() error { return core.Validate.Struct(qf) }
