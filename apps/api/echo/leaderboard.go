package echoapi

import (
	"net/http"

	"github.com/itbasis/go-clock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/CoderPush/pulse-sub001/core"
	"github.com/CoderPush/pulse-sub001/core/leaderboard"
	"github.com/CoderPush/pulse-sub001/core/submission"
	"github.com/CoderPush/pulse-sub001/core/user"
	"github.com/CoderPush/pulse-sub001/core/week"
)

type leaderboardApi struct {
	usrSvc   user.Service
	subSvc   submission.Service
	weekRepo week.Repository
	clock    clock.Clock
}

func registerLeaderboardAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	usrSvc user.Service,
	subSvc submission.Service,
	weekRepo week.Repository,
	clk clock.Clock,
) {
	api := leaderboardApi{usrSvc: usrSvc, subSvc: subSvc, weekRepo: weekRepo, clock: clk}
	g.GET("/leaderboard", api.query, jwt)
}

func (api *leaderboardApi) query(ctx echo.Context) error {
	mode := ctx.QueryParam("mode")
	switch mode {
	case "", "streaks", "fastest":
	default:
		return core.NewValidationError(nil, core.FieldError{Field: "mode", Error: "expected one of: streaks, fastest"})
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	snap, err := api.snapshot(ctx, ctxUsr.ID)
	if err != nil {
		return err
	}

	var entries []leaderboard.Entry
	if mode == "fastest" {
		entries = leaderboard.Fastest(snap)
	} else {
		entries = leaderboard.Streaks(snap, leaderboard.Config{
			StartWeek:     core.Conf.Report.StartWeek,
			ExcludedWeeks: core.Conf.Report.ExcludedWeeks,
		})
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

// snapshot gathers the current year's users, submissions and weeks.
func (api *leaderboardApi) snapshot(ctx echo.Context, currentUserID string) (leaderboard.Snapshot, error) {
	now := api.clock.Now().UTC()
	ref := week.CurrentReportingRef(now)

	users, err := api.usrSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return leaderboard.Snapshot{}, errors.Wrap(err, "querying users")
	}
	subs, err := api.subSvc.Query(ctx.Request().Context(), submission.QueryFilter{Year: ref.Year})
	if err != nil {
		return leaderboard.Snapshot{}, errors.Wrap(err, "querying submissions")
	}
	weeks, err := api.weekRepo.QueryWeeksByYear(ctx.Request().Context(), ref.Year)
	if err != nil {
		return leaderboard.Snapshot{}, errors.Wrap(err, "querying weeks")
	}
	if len(weeks) == 0 {
		// weeks not generated yet; compute them up to the current reporting week
		for n := 1; n <= ref.Week; n++ {
			win, err := week.NewWindow(ref.Year, n)
			if err != nil {
				return leaderboard.Snapshot{}, errors.Wrap(err, "computing weeks")
			}
			weeks = append(weeks, win)
		}
	}

	return leaderboard.Snapshot{
		Users:         users,
		Submissions:   subs,
		Weeks:         weeks,
		CurrentYear:   ref.Year,
		CurrentWeek:   ref.Week,
		CurrentUserID: currentUserID,
	}, nil
}
