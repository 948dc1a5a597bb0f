package main

import (
	"context"
	"fmt"

	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/urfave/cli/v3"
)

// UsersList lists user accounts.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.requireSession(); err != nil {
		return err
	}

	users, err := r.backend.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(users, pretty)
	}

	r.writePlain("Found %d accounts:\n\n", len(users))
	for i, user := range users {
		mark := "✗"
		if user.Subscribed {
			mark = "✓"
		}
		r.writePlain("%d. %s %s\n", i+1, mark, user.DisplayName())
		r.writePlain("   ID: %s\n", user.ID)
	}

	return nil
}

// UsersSubscribe grants a subscription to an account.
func (r *Runner) UsersSubscribe(ctx context.Context, cmd *cli.Command) error {
	return r.setSubscription(ctx, cmd, true)
}

// UsersUnsubscribe revokes an account's subscription.
func (r *Runner) UsersUnsubscribe(ctx context.Context, cmd *cli.Command) error {
	return r.setSubscription(ctx, cmd, false)
}

func (r *Runner) setSubscription(ctx context.Context, cmd *cli.Command, subscribed bool) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: account id", shared.ErrMissingArgument)
	}

	if err := r.requireSession(); err != nil {
		return err
	}

	r.logger.Infof("setting subscription for %v to %v", id, subscribed)

	if err := r.backend.SetSubscription(ctx, id, subscribed); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.record("set_subscription", "user", id, fmt.Sprintf("subscribed=%v", subscribed))
	if subscribed {
		return r.writePlain("✓ Subscription granted\n")
	}
	return r.writePlain("✓ Subscription revoked\n")
}
