package main

import (
	"context"
	"fmt"

	"github.com/ferrovax/gamedesk/internal/session"
	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges admin credentials for a bearer token and persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	if r.session == nil {
		return fmt.Errorf("%w: state database unavailable", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("logging in as %v", username)

	if !r.session.Login(ctx, username, password) {
		return fmt.Errorf("%w: check the username and password", shared.ErrAuthFailed)
	}

	r.record("login", "session", "", username)
	return r.writePlain("✓ Logged in as %s\n", username)
}

// AuthStatus reports the persisted session state without a server round-trip.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: state database unavailable", shared.ErrServiceUnavailable)
	}

	switch r.session.Resolve() {
	case session.StateAuthenticated:
		return r.writePlain("✓ Session active\n")
	default:
		return r.writePlain("✗ Not logged in\n")
	}
}

// AuthLogout clears the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: state database unavailable", shared.ErrServiceUnavailable)
	}

	r.session.Logout()
	r.record("logout", "session", "", "")
	return r.writePlain("✓ Logged out\n")
}
