package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	echoapi "github.com/CoderPush/pulse-sub001/apps/api/echo"
	"github.com/CoderPush/pulse-sub001/core"
	"github.com/CoderPush/pulse-sub001/core/project"
	"github.com/CoderPush/pulse-sub001/core/reminder"
	"github.com/CoderPush/pulse-sub001/core/submission"
	"github.com/CoderPush/pulse-sub001/core/user"
	emailsvc "github.com/CoderPush/pulse-sub001/services/email"
	logsvc "github.com/CoderPush/pulse-sub001/services/logger"
	"github.com/CoderPush/pulse-sub001/storage/database"
	sqlxrepos "github.com/CoderPush/pulse-sub001/storage/database/sqlx"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if err := run(logger); err != nil {
		logger.Fatalf("main: %+v", err)
	}
}

func run(logger *log.Logger) error {
	appLogger := logsvc.NewRollbarLogger(logger, core.Conf)
	appLogger.Enable(!(core.Conf.Debug || core.Conf.TestMode))

	// set up DB
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return errors.Wrap(err, "creating database")
	}
	db, err := database.Open(core.Conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return errors.Wrap(err, "pinging database")
	}
	if err := database.Migrate(db); err != nil {
		return errors.Wrap(err, "migrating database")
	}

	sdb := sqlx.NewDb(db, core.Conf.Database.Engine)
	usrRepo := sqlxrepos.NewUserRepository(sdb)
	weekRepo := sqlxrepos.NewWeekRepository(sdb)
	subRepo := sqlxrepos.NewSubmissionRepository(sdb)
	prjRepo := sqlxrepos.NewProjectRepository(sdb)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}
	clk := clock.New()
	usrSvc := user.NewService(usrRepo, mailSvc)
	subSvc := submission.NewService(subRepo, clk)
	prjSvc := project.NewService(prjRepo)
	remSvc := reminder.NewService(usrSvc, subSvc, mailSvc, clk)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:     core.Conf.Server.Address(),
			Logger:      appLogger,
			Clock:       clk,
			UserSvc:     usrSvc,
			ProjectSvc:  prjSvc,
			SubSvc:      subSvc,
			ReminderSvc: remSvc,
			WeekRepo:    weekRepo,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Printf("server listening on %s", core.Conf.Server.Address())
		serverErrors <- app.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")
	case <-app.ShutdownSignal():
		logger.Print("integrity issue: shutting down")
	case sig := <-quit:
		logger.Printf("%v: shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	return nil
}
