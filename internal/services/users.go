// User account operations
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/shared"
)

// ListUsers retrieves every user account. Accounts are read-only here apart
// from the subscription flag.
func (c *Client) ListUsers(ctx context.Context) ([]models.UserAccount, error) {
	var users []models.UserAccount
	if err := c.do(ctx, http.MethodGet, usersPath, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetSubscription toggles an account's subscription flag.
func (c *Client) SetSubscription(ctx context.Context, id string, subscribed bool) error {
	if id == "" {
		return fmt.Errorf("%w: user id required", shared.ErrInvalidArgument)
	}

	body := map[string]any{"id": id, "subscribed": subscribed}
	return c.do(ctx, http.MethodPut, subscriptionPath, body, nil)
}
