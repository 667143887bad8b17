// Package reminder emails users who have not submitted the current reporting
// week's report yet.
package reminder

import (
	"context"
	"net/mail"

	"github.com/itbasis/go-clock"
	"github.com/pkg/errors"

	"github.com/CoderPush/pulse-sub001/core"
	"github.com/CoderPush/pulse-sub001/core/submission"
	"github.com/CoderPush/pulse-sub001/core/user"
	"github.com/CoderPush/pulse-sub001/core/week"
)

type (
	// Result reports who was reminded.
	Result struct {
		Year       int      `json:"year"`
		WeekNumber int      `json:"week_number"`
		Reminded   []string `json:"reminded"` // user IDs
	}

	Service interface {
		// SendReminders emails every active user missing the current
		// reporting week's submission.
		SendReminders(ctx context.Context) (Result, error)
	}

	service struct {
		usrSvc  user.Service
		subSvc  submission.Service
		mailSvc core.EmailService
		clock   clock.Clock
	}
)

var _ Service = (*service)(nil)

func NewService(usrSvc user.Service, subSvc submission.Service, mailSvc core.EmailService, clk clock.Clock) Service {
	return &service{
		usrSvc:  usrSvc,
		subSvc:  subSvc,
		mailSvc: mailSvc,
		clock:   clk,
	}
}

func (svc *service) SendReminders(ctx context.Context) (Result, error) {
	now := svc.clock.Now().UTC()
	ref := week.CurrentReportingRef(now)

	win, err := week.NewWindow(ref.Year, ref.Week)
	if err != nil {
		return Result{}, err
	}
	label, err := week.Format(ref.Week)
	if err != nil {
		return Result{}, err
	}

	users, err := svc.usrSvc.QueryAll(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "querying users")
	}
	missing, err := svc.subSvc.MissingForWeek(ctx, users, ref.Year, ref.Week)
	if err != nil {
		return Result{}, errors.Wrap(err, "finding missing submissions")
	}

	res := Result{Year: ref.Year, WeekNumber: ref.Week}
	msgs := make([]*core.EmailMessage, 0, len(missing))
	for _, usr := range missing {
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: usr.DisplayName(), Address: usr.Email}},
			Subject:      label + " report reminder",
			TemplateName: "submission-reminder",
			TemplateData: struct {
				Name     string
				Week     string
				Deadline string
				LateEnd  string
			}{
				Name:     usr.DisplayName(),
				Week:     label,
				Deadline: win.SubmissionEnd.Format("Mon, 02 Jan 2006 15:04 MST"),
				LateEnd:  win.LateSubmissionEnd.Format("Mon, 02 Jan 2006 15:04 MST"),
			},
		})
		res.Reminded = append(res.Reminded, usr.ID)
	}
	svc.mailSvc.SendMessages(msgs...)
	return res, nil
}
