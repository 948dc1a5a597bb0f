package main

import (
	"context"
	"fmt"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/urfave/cli/v3"
)

// TagsList lists tags grouped by owning category.
func (r *Runner) TagsList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.requireSession(); err != nil {
		return err
	}

	tags, err := r.backend.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(tags, pretty)
	}

	for _, group := range models.GroupTags(tags) {
		r.writePlain("%s (%d):\n", group.Category, len(group.Tags))
		for _, tag := range group.Tags {
			r.writePlain("  %s  %s\n", tag.ID, tag.Name)
		}
		r.writePlain("\n")
	}

	return nil
}

// TagsCreate creates a tag under the given owning category.
func (r *Runner) TagsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: tag name", shared.ErrMissingArgument)
	}

	if err := r.requireSession(); err != nil {
		return err
	}

	r.logger.Infof("creating tag %q", name)

	created, err := r.backend.CreateTag(ctx, models.Tag{
		Name:      name,
		BelongsTo: cmd.String("belongs-to"),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.record("create", "tag", created.ID, created.Name)
	r.writePlain("✓ Tag created: %s\n", created.Name)
	r.writePlain("  ID: %s\n", created.ID)
	return nil
}

// TagsDelete deletes a tag. Entries referencing it keep the stale reference
// until they are next edited.
func (r *Runner) TagsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: tag id", shared.ErrMissingArgument)
	}

	if !cmd.Bool("force") {
		return r.writePlain("Deleting a tag cannot be undone. Re-run with --force to confirm.\n")
	}

	if err := r.requireSession(); err != nil {
		return err
	}

	r.logger.Infof("deleting tag %v", id)

	if err := r.backend.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.record("delete", "tag", id, "")
	return r.writePlain("✓ Tag deleted\n")
}
