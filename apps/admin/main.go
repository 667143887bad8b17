package main

import (
	"log"
	"os"

	"github.com/itbasis/go-clock"
	"github.com/jmoiron/sqlx"

	"github.com/CoderPush/pulse-sub001/core"
	"github.com/CoderPush/pulse-sub001/core/reminder"
	"github.com/CoderPush/pulse-sub001/core/submission"
	"github.com/CoderPush/pulse-sub001/core/user"
	emailsvc "github.com/CoderPush/pulse-sub001/services/email"
	logsvc "github.com/CoderPush/pulse-sub001/services/logger"
	"github.com/CoderPush/pulse-sub001/storage/database"
	sqlxrepos "github.com/CoderPush/pulse-sub001/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	errAndDie(database.CreateIfNotExist(core.Conf))
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	sdb := sqlx.NewDb(db, core.Conf.Database.Engine)
	usrRepo := sqlxrepos.NewUserRepository(sdb)
	weekRepo := sqlxrepos.NewWeekRepository(sdb)
	subRepo := sqlxrepos.NewSubmissionRepository(sdb)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logsvc.NewRollbarLogger(logger, core.Conf))
	}
	clk := clock.New()
	usrSvc := user.NewService(usrRepo, mailSvc)
	subSvc := submission.NewService(subRepo, clk)
	remSvc := reminder.NewService(usrSvc, subSvc, mailSvc, clk)

	// start CLI
	cli := commandLine{
		db:       db,
		usrRepo:  usrRepo,
		weekRepo: weekRepo,
		remSvc:   remSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
