// package models defines the record types managed through the admin console
package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Category values for [Game.Category] and [Tag.BelongsTo]. The backend knows
// exactly these two.
const (
	CategoryGame = "Game"
	CategoryApp  = "App"
)

// Categories returns the fixed set of valid category values.
func Categories() []string {
	return []string{CategoryGame, CategoryApp}
}

// Game represents a catalog entry served by the file backend.
//
// ID and the timestamps are server-assigned and read-only; everything else
// is editable through the admin console.
type Game struct {
	ID             string    `json:"id,omitempty"`
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description"`
	Path           string    `json:"path"`
	Image          string    `json:"image"`
	Category       string    `json:"category" validate:"omitempty,oneof=Game App"`
	AdditionalTags TagRefs   `json:"additionalTags"`
	VideoLink      string    `json:"videoLink,omitempty"`
	Screenshots    []string  `json:"screenshots,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// Tag represents a secondary category a [Game] can reference by ID.
type Tag struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name" validate:"required"`
	BelongsTo string    `json:"belongsTo" validate:"omitempty,oneof=Game App"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// UnmarshalJSON decodes a tag and defaults BelongsTo to [CategoryGame] when
// the backend omits it.
func (t *Tag) UnmarshalJSON(data []byte) error {
	type alias Tag
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.BelongsTo == "" {
		a.BelongsTo = CategoryGame
	}
	*t = Tag(a)
	return nil
}

// UserAccount represents an end-user account. Accounts are never created or
// deleted here; only the subscription flag is toggled.
type UserAccount struct {
	ID         string    `json:"id"`
	Username   string    `json:"username,omitempty"`
	Email      string    `json:"email,omitempty"`
	Subscribed bool      `json:"subscribed"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// DisplayName returns the best available label for the account.
func (u UserAccount) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

// TagRefs is the list of tag IDs a game references.
//
// The backend has been observed to return sparse, denormalized arrays: entries
// may be bare ID strings, embedded objects carrying an "id" or "_id" field, or
// null. Decoding resolves every entry to a bare ID and drops empty ones, so a
// TagRefs value in memory never contains an empty element.
type TagRefs []string

func (r *TagRefs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	refs := make(TagRefs, 0, len(raw))
	for _, entry := range raw {
		var id string

		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			id = s
		} else {
			var obj struct {
				ID    string `json:"id"`
				AltID string `json:"_id"`
			}
			if err := json.Unmarshal(entry, &obj); err == nil {
				id = obj.ID
				if id == "" {
					id = obj.AltID
				}
			}
		}

		if id != "" {
			refs = append(refs, id)
		}
	}

	*r = refs
	return nil
}

// Clean returns a copy of r with empty entries removed. Decoding already
// strips them; Clean guards values assembled in memory before submission.
func (r TagRefs) Clean() TagRefs {
	cleaned := make(TagRefs, 0, len(r))
	for _, id := range r {
		if id != "" {
			cleaned = append(cleaned, id)
		}
	}
	return cleaned
}

// Prune returns a copy of r containing only IDs present in tags.
func (r TagRefs) Prune(tags []Tag) TagRefs {
	known := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		known[t.ID] = struct{}{}
	}

	pruned := make(TagRefs, 0, len(r))
	for _, id := range r {
		if _, ok := known[id]; ok {
			pruned = append(pruned, id)
		}
	}
	return pruned
}

// TagGroup is a set of tags sharing an owning category.
type TagGroup struct {
	Category string
	Tags     []Tag
}

// GroupTags buckets tags by owning category, in the fixed category order,
// preserving input order within each bucket. Empty buckets are included so
// callers can render zero counts.
func GroupTags(tags []Tag) []TagGroup {
	groups := make([]TagGroup, 0, len(Categories()))
	for _, category := range Categories() {
		group := TagGroup{Category: category, Tags: []Tag{}}
		for _, t := range tags {
			if t.BelongsTo == category {
				group.Tags = append(group.Tags, t)
			}
		}
		groups = append(groups, group)
	}
	return groups
}
