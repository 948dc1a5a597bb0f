// Catalog entry operations
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/shared"
)

// ListGames retrieves every catalog entry.
func (c *Client) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := c.do(ctx, http.MethodGet, gamesPath, nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// CreateGame creates a catalog entry and returns the stored record.
// AdditionalTags are cleaned before the payload leaves the client.
func (c *Client) CreateGame(ctx context.Context, game models.Game) (*models.Game, error) {
	game.AdditionalTags = game.AdditionalTags.Clean()

	var created models.Game
	if err := c.do(ctx, http.MethodPost, gamesPath, game, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateGame updates an existing catalog entry. The backend expects the
// record id in the request body, not the path.
func (c *Client) UpdateGame(ctx context.Context, game models.Game) (*models.Game, error) {
	if game.ID == "" {
		return nil, fmt.Errorf("%w: game id required for update", shared.ErrInvalidArgument)
	}
	game.AdditionalTags = game.AdditionalTags.Clean()

	var updated models.Game
	if err := c.do(ctx, http.MethodPut, gamesPath, game, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteGame removes a catalog entry. The backend expects the id in the
// request body.
func (c *Client) DeleteGame(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: game id required for delete", shared.ErrInvalidArgument)
	}
	return c.do(ctx, http.MethodDelete, gamesPath, map[string]string{"id": id}, nil)
}
