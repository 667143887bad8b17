package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/CoderPush/pulse-sub001/core/reminder"
	"github.com/CoderPush/pulse-sub001/core/user"
	testutil "github.com/CoderPush/pulse-sub001/tests"
)

func Test_reminderApi_send(t *testing.T) {
	slacker := testutil.CreateUser(t, usrRepo, "Slacker Rem", "", "", user.MemberRoles, true)
	onTime := testutil.CreateUser(t, usrRepo, "Ontime Rem", "", "", user.MemberRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin Rem", "", "", user.AdminRoles, true)
	testutil.CreateSubmission(t, subRepo, onTime, 2025, 23, testNow)

	t.Run("admin only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/reminders", getToken(t, slacker))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("send() code = %v, want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("reminds missing users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/reminders", getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("send() code = %v, want %v", rec.Code, http.StatusOK)
		}

		var res reminder.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling Result: %v", err)
		}
		if res.Year != 2025 || res.WeekNumber != 23 {
			t.Errorf("send() week = %d-W%d, want 2025-W23", res.Year, res.WeekNumber)
		}

		reminded := make(map[string]bool, len(res.Reminded))
		for _, id := range res.Reminded {
			reminded[id] = true
		}
		if !reminded[slacker.ID] {
			t.Error("send() did not remind a user missing the week's submission")
		}
		if reminded[onTime.ID] {
			t.Error("send() reminded a user who already submitted")
		}
	})
}
