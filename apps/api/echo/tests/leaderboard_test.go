package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/CoderPush/pulse-sub001/core/leaderboard"
	"github.com/CoderPush/pulse-sub001/core/user"
	testutil "github.com/CoderPush/pulse-sub001/tests"
)

func Test_leaderboardApi(t *testing.T) {
	// reporting week is 2025-W23 (see testNow); streaks count weeks 9..23
	// minus the excluded 2025-W16
	testutil.CreateWeeks(t, weekRepo, 2025, 1, 30)

	streaker := testutil.CreateUser(t, usrRepo, "Streaker Lead", "", "", user.MemberRoles, true)
	runnerUp := testutil.CreateUser(t, usrRepo, "Runnerup Lead", "", "", user.MemberRoles, true)

	for wk := 20; wk <= 23; wk++ {
		testutil.CreateSubmission(t, subRepo, streaker, 2025, wk, testNow.AddDate(0, 0, -7*(23-wk)).Add(-4*time.Hour))
	}
	for wk := 21; wk <= 23; wk++ {
		testutil.CreateSubmission(t, subRepo, runnerUp, 2025, wk, testNow.AddDate(0, 0, -7*(23-wk)))
	}

	token := getToken(t, streaker)

	find := func(entries []leaderboard.Entry, id string) (leaderboard.Entry, int) {
		for i, e := range entries {
			if e.ID == id {
				return e, i
			}
		}
		return leaderboard.Entry{}, -1
	}

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/leaderboard")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("query() code = %v, want %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/leaderboard?mode=bogus", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query() code = %v, want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("streaks", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/leaderboard?mode=streaks", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("query() code = %v, want %v", rec.Code, http.StatusOK)
		}
		var entries []leaderboard.Entry
		if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
			t.Fatalf("unmarshalling entries: %v", err)
		}

		se, si := find(entries, streaker.ID)
		re, ri := find(entries, runnerUp.ID)
		if si < 0 || ri < 0 {
			t.Fatalf("Streaks() entries missing fixture users: %+v", entries)
		}
		if se.Streak != 4 {
			t.Errorf("Streaks() streaker streak = %d, want 4", se.Streak)
		}
		if re.Streak != 3 {
			t.Errorf("Streaks() runner-up streak = %d, want 3", re.Streak)
		}
		if si > ri {
			t.Errorf("Streaks() order: streaker at %d after runner-up at %d", si, ri)
		}
		if !se.IsCurrentUser {
			t.Error("Streaks() requesting user not flagged")
		}
	})

	t.Run("fastest", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/leaderboard?mode=fastest", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("query() code = %v, want %v", rec.Code, http.StatusOK)
		}
		var entries []leaderboard.Entry
		if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
			t.Fatalf("unmarshalling entries: %v", err)
		}

		se, si := find(entries, streaker.ID)
		_, ri := find(entries, runnerUp.ID)
		if si < 0 || ri < 0 {
			t.Fatalf("Fastest() entries missing fixture users: %+v", entries)
		}
		// streaker submitted week 23 four hours before runner-up
		if si > ri {
			t.Errorf("Fastest() order: earlier submitter at %d after later one at %d", si, ri)
		}
		if se.Rank < 1 {
			t.Errorf("Fastest() rank = %d, want >= 1", se.Rank)
		}
	})
}
