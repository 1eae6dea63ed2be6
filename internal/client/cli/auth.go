package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/rewear/internal/client/client"
	"github.com/dmitrijs2005/rewear/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

func (a *App) register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Register(ctx, email, password, name); err != nil {
		return err
	}

	a.say("Registered, you can now log in")
	return nil
}

func (a *App) login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.setSession(sess)
	a.setMode(ModeOnline)
	a.say("Signed in as %s (%s)", sess.Email, sess.Role)
	return nil
}

// logout always forgets the local session; a server failure is only logged.
func (a *App) logout(ctx context.Context, _ []string) error {
	err := a.auth.Logout(ctx)
	a.setSession(nil)
	if err != nil {
		a.logger.Warn(ctx, "logout was not confirmed by the server", "error", err)
	}
	a.say("Signed out")
	return nil
}

func (a *App) profile(ctx context.Context, _ []string) error {
	resp, err := a.market.Profile(ctx)
	if err != nil {
		return err
	}
	u := resp.User
	a.say("%s <%s>", u.Name, u.Email)
	a.say("role:   %s", u.Role)
	a.say("points: %d", u.Points)
	a.say("since:  %s", formatTime(u.CreatedAt))
	return nil
}
