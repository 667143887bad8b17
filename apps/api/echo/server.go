package echoapi

import (
	"context"
	"net/http"

	"github.com/itbasis/go-clock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/CoderPush/pulse-sub001/core"
	"github.com/CoderPush/pulse-sub001/core/project"
	"github.com/CoderPush/pulse-sub001/core/reminder"
	"github.com/CoderPush/pulse-sub001/core/submission"
	"github.com/CoderPush/pulse-sub001/core/user"
	"github.com/CoderPush/pulse-sub001/core/week"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger      core.Logger
		Clock       clock.Clock
		UserSvc     user.Service
		ProjectSvc  project.Service
		SubSvc      submission.Service
		ReminderSvc reminder.Service
		WeekRepo    week.Repository
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error

		// ShutdownSignal is notified when an unrecoverable error
		// requires the server to be restarted.
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerWeekAPI(v1, jwt, s.opts.WeekRepo, s.opts.Clock)
	registerSubmissionAPI(v1, jwt, s.opts.SubSvc, s.opts.UserSvc)
	registerLeaderboardAPI(v1, jwt, s.opts.UserSvc, s.opts.SubSvc, s.opts.WeekRepo, s.opts.Clock)
	registerProjectAPI(v1, jwt, s.opts.ProjectSvc)
	registerReminderAPI(v1, jwt, s.opts.ReminderSvc)
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) ShutdownSignal() <-chan struct{} {
	return s.shutdown
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
