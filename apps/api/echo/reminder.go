package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/CoderPush/pulse-sub001/core/reminder"
)

type reminderApi struct {
	svc reminder.Service
}

func registerReminderAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc reminder.Service) {
	api := reminderApi{svc: svc}
	g.POST("/reminders", api.send, jwt, adminMiddleware())
}

func (api *reminderApi) send(ctx echo.Context) error {
	res, err := api.svc.SendReminders(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "sending reminders")
	}
	return ctx.JSON(http.StatusOK, res)
}
