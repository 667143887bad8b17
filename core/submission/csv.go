package submission

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/CoderPush/pulse-sub001/core/user"
)

var csvHeader = []string{
	"user", "email", "year", "week", "hours", "manager", "projects", "status", "submitted_at",
}

// WriteCSV renders submissions as CSV. Users are matched by ID; submissions
// of unknown users are written with an empty user column.
func WriteCSV(w io.Writer, subs []Submission, users []user.User) error {
	byID := make(map[string]user.User, len(users))
	for _, usr := range users {
		byID[usr.ID] = usr
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, sub := range subs {
		var name, email string
		if usr, ok := byID[sub.UserID]; ok {
			name = usr.DisplayName()
			email = usr.Email
		}
		var submittedAt string
		if sub.SubmittedAt.Valid {
			submittedAt = sub.SubmittedAt.Time.UTC().Format(time.RFC3339)
		}
		rec := []string{
			name,
			email,
			strconv.Itoa(sub.Year),
			strconv.Itoa(sub.WeekNumber),
			strconv.FormatFloat(sub.Hours, 'f', -1, 64),
			sub.ManagerName.String,
			strings.Join(sub.Projects, "; "),
			string(sub.Status),
			submittedAt,
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing CSV record")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV")
}
