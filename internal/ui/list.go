package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/ferrovax/gamedesk/internal/models"
)

var (
	_ list.Item = gameItem{}
	_ list.Item = tagItem{}
	_ list.Item = userItem{}
)

// gameItem wraps [models.Game] to implement [list.Item].
type gameItem struct {
	game    models.Game
	busy    bool
	tagName func(string) string
}

func (i gameItem) FilterValue() string { return i.game.Title }
func (i gameItem) Title() string {
	if i.busy {
		return fmt.Sprintf("%s …", i.game.Title)
	}
	return i.game.Title
}
func (i gameItem) Description() string {
	desc := i.game.Category
	if desc == "" {
		desc = models.CategoryGame
	}
	if len(i.game.AdditionalTags) > 0 && i.tagName != nil {
		names := make([]string, 0, len(i.game.AdditionalTags))
		for _, id := range i.game.AdditionalTags {
			names = append(names, i.tagName(id))
		}
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(names, ", "))
	}
	return desc
}

// tagItem wraps [models.Tag] to implement [list.Item].
type tagItem struct {
	tag  models.Tag
	busy bool
}

func (i tagItem) FilterValue() string { return i.tag.Name }
func (i tagItem) Title() string {
	if i.busy {
		return fmt.Sprintf("%s …", i.tag.Name)
	}
	return i.tag.Name
}
func (i tagItem) Description() string { return i.tag.BelongsTo }

// userItem wraps [models.UserAccount] to implement [list.Item].
type userItem struct {
	user models.UserAccount
	busy bool
}

func (i userItem) FilterValue() string { return i.user.DisplayName() }
func (i userItem) Title() string {
	if i.busy {
		return fmt.Sprintf("%s …", i.user.DisplayName())
	}
	return i.user.DisplayName()
}
func (i userItem) Description() string {
	if i.user.Subscribed {
		return "subscribed"
	}
	return "not subscribed"
}
