package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/ferrovax/gamedesk/internal/state"
	"github.com/urfave/cli/v3"
)

// GamesList lists catalog entries, optionally filtered by title substring
// and category.
func (r *Runner) GamesList(ctx context.Context, cmd *cli.Command) error {
	query := cmd.String("query")
	category := cmd.String("category")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.requireSession(); err != nil {
		return err
	}

	controller := state.NewGameList(r.backend, nil)
	if err := controller.Reload(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	controller.SetFilter(state.Filter{Query: query, Category: category})
	games := controller.Visible()

	if useJSON {
		return r.writeJSON(games, pretty)
	}

	r.writePlain("Found %d entries:\n\n", len(games))
	for i, game := range games {
		r.writePlain("%d. %s\n", i+1, game.Title)
		r.writePlain("   ID: %s\n", game.ID)
		if game.Category != "" {
			r.writePlain("   Category: %s\n", game.Category)
		}
		if len(game.AdditionalTags) > 0 {
			r.writePlain("   Tags: %s\n", strings.Join(game.AdditionalTags, ", "))
		}
		if game.Path != "" {
			r.writePlain("   File: %s\n", game.Path)
		}
		r.writePlain("\n")
	}

	return nil
}

// GamesCreate creates a catalog entry, uploading a local image first when
// one is provided.
func (r *Runner) GamesCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	game := models.Game{
		Title:          cmd.String("title"),
		Description:    cmd.String("description"),
		Category:       cmd.String("category"),
		VideoLink:      cmd.String("video"),
		AdditionalTags: splitTagRefs(cmd.String("tags")),
	}

	if imagePath := cmd.String("image"); imagePath != "" {
		ref, err := r.uploadLocalImage(ctx, imagePath)
		if err != nil {
			return err
		}
		game.Image = ref
	}

	r.logger.Infof("creating catalog entry %q", game.Title)

	created, err := r.backend.CreateGame(ctx, game)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.record("create", "game", created.ID, created.Title)
	r.writePlain("✓ Entry created: %s\n", created.Title)
	r.writePlain("  ID: %s\n", created.ID)
	return nil
}

// GamesUpdate updates an existing catalog entry. Only the provided flags
// change; everything else keeps its server-side value.
func (r *Runner) GamesUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	if err := r.requireSession(); err != nil {
		return err
	}

	games, err := r.backend.ListGames(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var game *models.Game
	for i := range games {
		if games[i].ID == id {
			game = &games[i]
			break
		}
	}
	if game == nil {
		return fmt.Errorf("%w: no entry with id %s", shared.ErrNotFound, id)
	}

	if cmd.IsSet("title") {
		game.Title = cmd.String("title")
	}
	if cmd.IsSet("description") {
		game.Description = cmd.String("description")
	}
	if cmd.IsSet("category") {
		game.Category = cmd.String("category")
	}
	if cmd.IsSet("tags") {
		game.AdditionalTags = splitTagRefs(cmd.String("tags"))
	}
	if cmd.IsSet("video") {
		game.VideoLink = cmd.String("video")
	}
	if imagePath := cmd.String("image"); imagePath != "" {
		ref, err := r.uploadLocalImage(ctx, imagePath)
		if err != nil {
			return err
		}
		game.Image = ref
	}

	r.logger.Infof("updating catalog entry %v", id)

	updated, err := r.backend.UpdateGame(ctx, *game)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.record("update", "game", updated.ID, updated.Title)
	return r.writePlain("✓ Entry updated: %s\n", updated.Title)
}

// GamesDelete deletes a catalog entry. Destructive, so it refuses to run
// without --force.
func (r *Runner) GamesDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: entry id", shared.ErrMissingArgument)
	}

	if !cmd.Bool("force") {
		return r.writePlain("Deleting an entry cannot be undone. Re-run with --force to confirm.\n")
	}

	if err := r.requireSession(); err != nil {
		return err
	}

	r.logger.Infof("deleting catalog entry %v", id)

	if err := r.backend.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.record("delete", "game", id, "")
	return r.writePlain("✓ Entry deleted\n")
}

// GamesOpen opens an entry's image or video link in the system browser.
func (r *Runner) GamesOpen(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: entry id", shared.ErrMissingArgument)
	}

	if err := r.requireSession(); err != nil {
		return err
	}

	games, err := r.backend.ListGames(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	for _, game := range games {
		if game.ID != id {
			continue
		}

		ref := game.Image
		if cmd.Bool("video") {
			ref = game.VideoLink
		}
		url := models.ResolveAssetURL(r.client.BaseURL(), ref)
		if url == "" {
			return fmt.Errorf("%w: entry has no linked asset", shared.ErrNotFound)
		}

		if err := shared.OpenBrowser(url); err != nil {
			return err
		}
		return r.writePlain("✓ Opened %s\n", url)
	}

	return fmt.Errorf("%w: no entry with id %s", shared.ErrNotFound, id)
}

// uploadLocalImage uploads a local file and returns the stored reference.
func (r *Runner) uploadLocalImage(ctx context.Context, imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	defer f.Close()

	ref, err := r.backend.UploadPicture(ctx, filepath.Base(imagePath), f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpload, err)
	}

	r.record("upload", "picture", "", ref)
	return ref, nil
}

func splitTagRefs(raw string) models.TagRefs {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	refs := make(models.TagRefs, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			refs = append(refs, p)
		}
	}
	return refs
}
