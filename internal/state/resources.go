package state

import (
	"context"
	"fmt"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/services"
	"github.com/ferrovax/gamedesk/internal/shared"
)

// The three concrete instantiations of the list/form pattern. Each screen in
// the TUI and each CLI command works through one of these.

// NewGameList creates the catalog entry list controller.
func NewGameList(backend services.Backend, confirm func(models.Game) bool) *ListController[models.Game] {
	return NewListController(ListOpts[models.Game]{
		Fetch:    backend.ListGames,
		Remove:   backend.DeleteGame,
		ID:       func(g models.Game) string { return g.ID },
		Fields:   func(g models.Game) []string { return []string{g.Title, g.Description, g.Path} },
		Category: func(g models.Game) string { return g.Category },
		Confirm:  confirm,
	})
}

// NewTagList creates the tag list controller.
func NewTagList(backend services.Backend, confirm func(models.Tag) bool) *ListController[models.Tag] {
	return NewListController(ListOpts[models.Tag]{
		Fetch:    backend.ListTags,
		Remove:   backend.DeleteTag,
		ID:       func(t models.Tag) string { return t.ID },
		Fields:   func(t models.Tag) []string { return []string{t.Name} },
		Category: func(t models.Tag) string { return t.BelongsTo },
		Confirm:  confirm,
	})
}

// NewUserList creates the user account list controller. Accounts cannot be
// deleted, so there is no remove operation.
func NewUserList(backend services.Backend) *ListController[models.UserAccount] {
	return NewListController(ListOpts[models.UserAccount]{
		Fetch:  backend.ListUsers,
		ID:     func(u models.UserAccount) string { return u.ID },
		Fields: func(u models.UserAccount) []string { return []string{u.Username, u.Email} },
	})
}

// NewGameForm creates the catalog entry mutation form. tags supplies the
// current tag collection for selection pruning: stale tag references are
// dropped from new records but preserved verbatim when editing, so an admin
// never loses references they did not touch.
func NewGameForm(backend services.Backend, tags func() []models.Tag, saved func()) *Form[models.Game] {
	return NewForm(FormOpts[models.Game]{
		Create: backend.CreateGame,
		Update: backend.UpdateGame,
		Upload: backend.UploadPicture,
		MergeAsset: func(draft *models.Game, url string) {
			draft.Image = url
		},
		BeforeSave: func(draft *models.Game, editing bool) {
			draft.AdditionalTags = draft.AdditionalTags.Clean()
			if !editing && tags != nil {
				draft.AdditionalTags = draft.AdditionalTags.Prune(tags())
			}
		},
		Saved: saved,
	})
}

// NewTagForm creates the tag mutation form. The backend has no tag update
// operation; tags are created and deleted, never edited.
func NewTagForm(backend services.Backend, saved func()) *Form[models.Tag] {
	return NewForm(FormOpts[models.Tag]{
		Create: backend.CreateTag,
		Update: func(ctx context.Context, draft models.Tag) (*models.Tag, error) {
			return nil, fmt.Errorf("%w: tags cannot be edited", shared.ErrInvalidArgument)
		},
		Saved: saved,
	})
}

// ToggleSubscription flips a user's subscription flag server-side and then
// refreshes the controller so the local copy matches.
func ToggleSubscription(ctx context.Context, backend services.Backend, users *ListController[models.UserAccount], id string) error {
	user, ok := users.Get(id)
	if !ok {
		return nil
	}

	if err := backend.SetSubscription(ctx, id, !user.Subscribed); err != nil {
		return err
	}
	return users.Reload(ctx)
}
