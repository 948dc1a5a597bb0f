// Tag operations
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/shared"
)

// ListTags retrieves every tag.
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, tagsPath, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a tag with a name and owning category.
func (c *Client) CreateTag(ctx context.Context, tag models.Tag) (*models.Tag, error) {
	if tag.BelongsTo == "" {
		tag.BelongsTo = models.CategoryGame
	}

	var created models.Tag
	if err := c.do(ctx, http.MethodPost, tagsPath, tag, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteTag removes a tag. The backend expects the id in the request body.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: tag id required for delete", shared.ErrInvalidArgument)
	}
	return c.do(ctx, http.MethodDelete, tagsPath, map[string]string{"id": id}, nil)
}
