package echoapi

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/CoderPush/pulse-sub001/core"
	"github.com/CoderPush/pulse-sub001/core/submission"
	"github.com/CoderPush/pulse-sub001/core/user"
)

type submissionApi struct {
	svc    submission.Service
	usrSvc user.Service
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc submission.Service, usrSvc user.Service) {
	api := submissionApi{svc: svc, usrSvc: usrSvc}

	sg := g.Group("/submissions", jwt)
	sg.POST("", api.create)
	sg.GET("/mine", api.mine)
	sg.GET("", api.query, adminMiddleware())
	sg.GET("/export", api.export, adminMiddleware())
	sg.DELETE("", api.destroyMultiple, adminMiddleware())

	dg := g.Group("/daily", jwt)
	dg.POST("", api.createDaily)
	dg.GET("/mine", api.myDaily)
}

// Handlers

func (api *submissionApi) create(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data submission.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.Create(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		switch errors.Cause(err) {
		case submission.ErrWindowClosed:
			return echo.NewHTTPError(http.StatusConflict, submission.ErrWindowClosed.Error())
		default:
			return err
		}
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *submissionApi) mine(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	year := time.Now().UTC().Year()
	if y := ctx.QueryParam("year"); y != "" {
		if year, err = strconv.Atoi(y); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "year", Error: "a valid year is required"})
		}
	}

	subs, err := api.svc.ForUserYear(ctx.Request().Context(), ctxUsr.ID, year)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) query(ctx echo.Context) error {
	filter := new(submission.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []submission.Submission{})
	}
	if err := filter.Validate(); err != nil {
		return err
	}

	subs, err := api.svc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) export(ctx echo.Context) error {
	filter := new(submission.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if err := filter.Validate(); err != nil {
		return err
	}

	subs, err := api.svc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	users, err := api.usrSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}

	var buf bytes.Buffer
	if err := submission.WriteCSV(&buf, subs, users); err != nil {
		return errors.Wrap(err, "rendering CSV")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="submissions.csv"`)
	return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (api *submissionApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting submissions")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *submissionApi) createDaily(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data submission.NewDailyReport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDailyReport")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rep, err := api.svc.CreateDaily(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		if errors.Cause(err) == submission.ErrDailyExists {
			return core.NewValidationError(nil, core.FieldError{Field: "date", Error: submission.ErrDailyExists.Error()})
		}
		return errors.Wrap(err, "creating daily report")
	}
	return ctx.JSON(http.StatusCreated, rep)
}

func (api *submissionApi) myDaily(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now
	if f := ctx.QueryParam("from"); f != "" {
		if from, err = time.Parse("2006-01-02", f); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "from", Error: "expected format: 2006-01-02"})
		}
	}
	if t := ctx.QueryParam("to"); t != "" {
		if to, err = time.Parse("2006-01-02", t); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "to", Error: "expected format: 2006-01-02"})
		}
	}

	reps, err := api.svc.DailyForUser(ctx.Request().Context(), ctxUsr.ID, from, to)
	if err != nil {
		return errors.Wrap(err, "querying daily reports")
	}
	if reps == nil {
		reps = []submission.DailyReport{}
	}
	return ctx.JSON(http.StatusOK, reps)
}
