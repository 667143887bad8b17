package main

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/CoderPush/pulse-sub001/core"
	"github.com/CoderPush/pulse-sub001/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(email, name, pwd string, isAdmin bool) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Email:     email,
			Roles:     user.MemberRoles,
			CreatedAt: time.Now().UTC(),
		}
	}
	if name != "" {
		usr.Name = null.StringFrom(name)
	}
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	usr.IsActive = true
	usr.UpdatedAt = time.Now().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
