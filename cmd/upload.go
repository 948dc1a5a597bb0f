package main

import (
	"context"
	"fmt"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/urfave/cli/v3"
)

// UploadPicture uploads a local image and prints the reference the backend
// stored it under, resolved to a full URL.
func (r *Runner) UploadPicture(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: image path", shared.ErrMissingArgument)
	}

	if err := r.requireSession(); err != nil {
		return err
	}

	ref, err := r.uploadLocalImage(ctx, path)
	if err != nil {
		return err
	}

	r.writePlain("✓ Uploaded %s\n", path)
	r.writePlain("  Reference: %s\n", ref)
	r.writePlain("  URL: %s\n", models.ResolveAssetURL(r.client.BaseURL(), ref))
	return nil
}
