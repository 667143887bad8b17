package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/CoderPush/pulse-sub001/apps/api/echo"
	"github.com/CoderPush/pulse-sub001/core/user"
	"github.com/CoderPush/pulse-sub001/core/week"
	testutil "github.com/CoderPush/pulse-sub001/tests"
)

func Test_weekApi_current(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Week Member", "", "", user.MemberRoles, true)
	testutil.CreateWeeks(t, weekRepo, 2025, 1, 30)

	req, rec := newAuthRequest(http.MethodGet, "/v1/weeks/current", getToken(t, member))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("current() code = %v, want %v", rec.Code, http.StatusOK)
	}

	var resp CurrentWeekResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling CurrentWeekResponse: %v", err)
	}
	if resp.Label != "Week 23" {
		t.Errorf("current() label = %q, want %q", resp.Label, "Week 23")
	}
	if resp.Year != 2025 || resp.WeekNumber != 23 {
		t.Errorf("current() week = %d-W%d, want 2025-W23", resp.Year, resp.WeekNumber)
	}
	if !resp.SubmissionEnd.After(resp.SubmissionStart) || !resp.LateSubmissionEnd.After(resp.SubmissionEnd) {
		t.Errorf("current() window deadlines out of order: %+v", resp.Window)
	}
}

func Test_weekApi_query(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Week Query Member", "", "", user.MemberRoles, true)
	testutil.CreateWeeks(t, weekRepo, 2025, 1, 30)
	token := getToken(t, member)

	t.Run("year required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/weeks", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query() code = %v, want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("by year", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/weeks?year=2025", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("query() code = %v, want %v", rec.Code, http.StatusOK)
		}
		var windows []week.Window
		if err := json.Unmarshal(rec.Body.Bytes(), &windows); err != nil {
			t.Fatalf("unmarshalling windows: %v", err)
		}
		if len(windows) != 30 {
			t.Fatalf("query() returned %d weeks, want 30", len(windows))
		}
		if windows[0].WeekNumber != 1 || windows[29].WeekNumber != 30 {
			t.Errorf("query() weeks not ordered: first %d, last %d", windows[0].WeekNumber, windows[29].WeekNumber)
		}
	})

	t.Run("unknown year is empty", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/weeks?year=1999", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("query() code = %v, want %v", rec.Code, http.StatusOK)
		}
		if body := rec.Body.String(); body != "[]\n" && body != "[]" {
			t.Errorf("query() body = %q, want empty list", body)
		}
	})
}
