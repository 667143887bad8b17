package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/CoderPush/pulse-sub001/core/submission"
	"github.com/CoderPush/pulse-sub001/core/user"
	testutil "github.com/CoderPush/pulse-sub001/tests"
)

func Test_submissionApi_create(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Sub Member", "", "", user.MemberRoles, true)
	token := getToken(t, member)

	body := marchallObj(t, submission.NewSubmission{
		Hours:       40,
		ManagerName: "Big Boss",
		Projects:    []string{"apollo"},
		Notes:       "steady week",
	})

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "hours required", token: token, body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"hours": "this field is required"}),
		},
		{name: "created", token: token, body: body, wantCode: http.StatusCreated},
		{
			name: "one submission per week", token: token, body: body, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"week_number": submission.ErrAlreadySubmitted.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/submissions", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var sub submission.Submission
				if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
					t.Fatalf("unmarshalling Submission: %v", err)
				}
				if sub.Year != 2025 || sub.WeekNumber != 23 {
					t.Errorf("Create() week = %d-W%d, want 2025-W23", sub.Year, sub.WeekNumber)
				}
				if sub.Status != submission.StatusOnTime {
					t.Errorf("Create() status = %v, want %v", sub.Status, submission.StatusOnTime)
				}
				if !sub.SubmittedAt.Valid || !sub.SubmittedAt.Time.Equal(testNow) {
					t.Errorf("Create() submittedAt = %v, want %v", sub.SubmittedAt, testNow)
				}
			}
		})
	}
}

func Test_submissionApi_mine(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Mine Member", "", "", user.MemberRoles, true)
	testutil.CreateSubmission(t, subRepo, member, 2025, 20, testNow.AddDate(0, 0, -21))
	testutil.CreateSubmission(t, subRepo, member, 2025, 21, testNow.AddDate(0, 0, -14))
	testutil.CreateSubmission(t, subRepo, member, 2024, 50, testNow.AddDate(-1, 0, 0))

	req, rec := newAuthRequest(http.MethodGet, "/v1/submissions/mine?year=2025", getToken(t, member))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("mine() code = %v, want %v", rec.Code, http.StatusOK)
	}

	var subs []submission.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
		t.Fatalf("unmarshalling submissions: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("mine() returned %d submissions, want 2", len(subs))
	}
	for _, sub := range subs {
		if sub.UserID != member.ID || sub.Year != 2025 {
			t.Errorf("mine() returned foreign submission: %+v", sub)
		}
	}
}

func Test_submissionApi_adminQueryAndExport(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Export Member", "", "", user.MemberRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Export Admin", "", "", user.AdminRoles, true)
	testutil.CreateSubmission(t, subRepo, member, 2025, 19, testNow.AddDate(0, 0, -28))

	t.Run("query is admin only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/submissions", getToken(t, member))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("query() code = %v, want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("query filters by user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/submissions?user_id="+member.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("query() code = %v, want %v", rec.Code, http.StatusOK)
		}
		var subs []submission.Submission
		if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
			t.Fatalf("unmarshalling submissions: %v", err)
		}
		if len(subs) != 1 || subs[0].UserID != member.ID {
			t.Errorf("query() = %+v, want 1 submission for %s", subs, member.ID)
		}
	})

	t.Run("export renders CSV", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/submissions/export?user_id="+member.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("export() code = %v, want %v", rec.Code, http.StatusOK)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("export() Content-Type = %q, want text/csv", ct)
		}
		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		if len(lines) != 2 { // header + 1 record
			t.Fatalf("export() returned %d lines, want 2:\n%s", len(lines), rec.Body.String())
		}
		if !strings.Contains(lines[1], member.Email) {
			t.Errorf("export() record = %q, want email %q", lines[1], member.Email)
		}
	})
}

func Test_submissionApi_daily(t *testing.T) {
	member := testutil.CreateUser(t, usrRepo, "Daily Member", "", "", user.MemberRoles, true)
	token := getToken(t, member)

	body := []byte(`{"date": "2025-06-04T00:00:00Z", "hours": 8, "note": "pairing"}`)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "created", token: token, body: body, wantCode: http.StatusCreated},
		{
			name: "one report per day", token: token, body: body, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": submission.ErrDailyExists.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/daily", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("mine", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/daily/mine?from=2025-06-01&to=2025-06-30", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("myDaily() code = %v, want %v", rec.Code, http.StatusOK)
		}
		var reps []submission.DailyReport
		if err := json.Unmarshal(rec.Body.Bytes(), &reps); err != nil {
			t.Fatalf("unmarshalling daily reports: %v", err)
		}
		if len(reps) != 1 || reps[0].Hours != 8 {
			t.Errorf("myDaily() = %+v, want 1 report of 8h", reps)
		}
	})
}
