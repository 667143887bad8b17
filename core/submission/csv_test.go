package submission

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/CoderPush/pulse-sub001/core/user"
)

func TestWriteCSV(t *testing.T) {
	ann := user.User{ID: "u1", Name: null.StringFrom("Ann"), Email: "ann@test.cd"}
	ben := user.User{ID: "u2", Email: "ben@test.cd"} // no name, falls back to the email local part

	submittedAt := time.Date(2025, 6, 5, 9, 30, 0, 0, time.UTC)
	subs := []Submission{
		{
			ID:          "s1",
			UserID:      ann.ID,
			Year:        2025,
			WeekNumber:  23,
			Hours:       42.5,
			ManagerName: null.StringFrom("Carol"),
			Projects:    []string{"Atlas", "Beacon"},
			Status:      StatusOnTime,
			SubmittedAt: null.TimeFrom(submittedAt),
		},
		{
			ID:         "s2",
			UserID:     ben.ID,
			Year:       2025,
			WeekNumber: 23,
			Hours:      40,
			Status:     StatusLate,
			// never submitted through the API, e.g. backfilled
		},
		{
			ID:         "s3",
			UserID:     "ghost",
			Year:       2025,
			WeekNumber: 22,
			Hours:      10,
			Status:     StatusOnTime,
		},
	}

	var buff bytes.Buffer
	if err := WriteCSV(&buff, subs, []user.User{ann, ben}); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}

	records, err := csv.NewReader(&buff).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	want := [][]string{
		{"user", "email", "year", "week", "hours", "manager", "projects", "status", "submitted_at"},
		{"Ann", "ann@test.cd", "2025", "23", "42.5", "Carol", "Atlas; Beacon", "on-time", "2025-06-05T09:30:00Z"},
		{"Ben", "ben@test.cd", "2025", "23", "40", "", "", "late", ""},
		{"", "", "2025", "22", "10", "", "", "on-time", ""},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("WriteCSV() =\n%v\nwant\n%v", records, want)
	}
}
