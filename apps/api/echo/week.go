package echoapi

import (
	"net/http"
	"strconv"

	"github.com/itbasis/go-clock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/CoderPush/pulse-sub001/core"
	"github.com/CoderPush/pulse-sub001/core/week"
)

type weekApi struct {
	repo  week.Repository
	clock clock.Clock
}

func registerWeekAPI(g *echo.Group, jwt echo.MiddlewareFunc, repo week.Repository, clk clock.Clock) {
	api := weekApi{repo: repo, clock: clk}

	wg := g.Group("/weeks", jwt)
	wg.GET("/current", api.current)
	wg.GET("", api.query)
}

// CurrentWeekResponse describes the active reporting week and its window.
type CurrentWeekResponse struct {
	Label string `json:"label"`
	week.Window
}

func (api *weekApi) current(ctx echo.Context) error {
	now := api.clock.Now().UTC()
	ref := week.CurrentReportingRef(now)

	win, err := api.repo.GetWeek(ctx.Request().Context(), ref.Year, ref.Week)
	if err != nil {
		if errors.Cause(err) != week.ErrNotFound {
			return errors.Wrap(err, "getting current week")
		}
		// fall back to the computed window when the row is not generated yet
		if win, err = week.NewWindow(ref.Year, ref.Week); err != nil {
			return errors.Wrap(err, "computing current week")
		}
	}

	label, err := week.Format(ref.Week)
	if err != nil {
		return errors.Wrap(err, "formatting week")
	}
	return ctx.JSON(http.StatusOK, CurrentWeekResponse{Label: label, Window: win})
}

func (api *weekApi) query(ctx echo.Context) error {
	year, err := strconv.Atoi(ctx.QueryParam("year"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "year", Error: "a valid year is required"})
	}

	windows, err := api.repo.QueryWeeksByYear(ctx.Request().Context(), year)
	if err != nil {
		return errors.Wrap(err, "querying weeks")
	}
	if windows == nil {
		windows = []week.Window{}
	}
	return ctx.JSON(http.StatusOK, windows)
}
