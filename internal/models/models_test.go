package models

import (
	"encoding/json"
	"testing"
)

func TestTagRefs(t *testing.T) {
	t.Run("Unmarshal", func(t *testing.T) {
		t.Run("Bare Strings", func(t *testing.T) {
			var refs TagRefs
			if err := json.Unmarshal([]byte(`["t1","t2"]`), &refs); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(refs) != 2 || refs[0] != "t1" || refs[1] != "t2" {
				t.Errorf("expected [t1 t2], got %v", refs)
			}
		})

		t.Run("Sparse Array", func(t *testing.T) {
			var refs TagRefs
			if err := json.Unmarshal([]byte(`["t1", null, "t2", null]`), &refs); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(refs) != 2 || refs[0] != "t1" || refs[1] != "t2" {
				t.Errorf("expected nulls stripped, got %v", refs)
			}
		})

		t.Run("Embedded Objects", func(t *testing.T) {
			var refs TagRefs
			data := `[{"_id":"t1"}, {"id":"t2"}, "t3"]`
			if err := json.Unmarshal([]byte(data), &refs); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(refs) != 3 || refs[0] != "t1" || refs[1] != "t2" || refs[2] != "t3" {
				t.Errorf("expected objects resolved to IDs, got %v", refs)
			}
		})

		t.Run("Null Array", func(t *testing.T) {
			var refs TagRefs
			if err := json.Unmarshal([]byte(`null`), &refs); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if refs != nil {
				t.Errorf("expected nil, got %v", refs)
			}
		})

		t.Run("Empty Strings Dropped", func(t *testing.T) {
			var refs TagRefs
			if err := json.Unmarshal([]byte(`["", "t1", ""]`), &refs); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(refs) != 1 || refs[0] != "t1" {
				t.Errorf("expected empty strings dropped, got %v", refs)
			}
		})
	})

	t.Run("Marshal Round Trip Is Clean", func(t *testing.T) {
		var refs TagRefs
		if err := json.Unmarshal([]byte(`["t1", null, "t2"]`), &refs); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out, err := json.Marshal(refs)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(out) != `["t1","t2"]` {
			t.Errorf(`expected ["t1","t2"], got %s`, out)
		}
	})

	t.Run("Clean", func(t *testing.T) {
		refs := TagRefs{"t1", "", "t2"}
		cleaned := refs.Clean()
		if len(cleaned) != 2 || cleaned[0] != "t1" || cleaned[1] != "t2" {
			t.Errorf("expected [t1 t2], got %v", cleaned)
		}
	})

	t.Run("Prune", func(t *testing.T) {
		tags := []Tag{{ID: "t1", Name: "RPG"}, {ID: "t3", Name: "Puzzle"}}
		refs := TagRefs{"t1", "t2", "t3"}

		pruned := refs.Prune(tags)
		if len(pruned) != 2 || pruned[0] != "t1" || pruned[1] != "t3" {
			t.Errorf("expected deleted tag pruned, got %v", pruned)
		}
	})
}

func TestTag(t *testing.T) {
	t.Run("BelongsTo Defaults To Game", func(t *testing.T) {
		var tag Tag
		if err := json.Unmarshal([]byte(`{"id":"t1","name":"RPG"}`), &tag); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tag.BelongsTo != CategoryGame {
			t.Errorf("expected default %q, got %q", CategoryGame, tag.BelongsTo)
		}
	})

	t.Run("BelongsTo Preserved When Present", func(t *testing.T) {
		var tag Tag
		if err := json.Unmarshal([]byte(`{"id":"t1","name":"Utility","belongsTo":"App"}`), &tag); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tag.BelongsTo != CategoryApp {
			t.Errorf("expected App, got %q", tag.BelongsTo)
		}
	})
}

func TestGroupTags(t *testing.T) {
	tags := []Tag{
		{ID: "t1", Name: "RPG", BelongsTo: CategoryGame},
		{ID: "t2", Name: "Utility", BelongsTo: CategoryApp},
		{ID: "t3", Name: "Shooter", BelongsTo: CategoryGame},
	}

	groups := GroupTags(tags)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	if groups[0].Category != CategoryGame || len(groups[0].Tags) != 2 {
		t.Errorf("expected 2 Game tags, got %d under %q", len(groups[0].Tags), groups[0].Category)
	}
	if groups[0].Tags[0].ID != "t1" || groups[0].Tags[1].ID != "t3" {
		t.Error("expected input order preserved within group")
	}
	if groups[1].Category != CategoryApp || len(groups[1].Tags) != 1 {
		t.Errorf("expected 1 App tag, got %d under %q", len(groups[1].Tags), groups[1].Category)
	}

	t.Run("Empty Buckets Included", func(t *testing.T) {
		groups := GroupTags(nil)
		if len(groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(groups))
		}
		for _, g := range groups {
			if len(g.Tags) != 0 {
				t.Errorf("expected empty bucket for %q", g.Category)
			}
		}
	})
}

func TestUserAccount(t *testing.T) {
	t.Run("DisplayName", func(t *testing.T) {
		cases := []struct {
			name string
			user UserAccount
			want string
		}{
			{"username wins", UserAccount{ID: "u1", Username: "admin", Email: "a@b.c"}, "admin"},
			{"email fallback", UserAccount{ID: "u1", Email: "a@b.c"}, "a@b.c"},
			{"id fallback", UserAccount{ID: "u1"}, "u1"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if got := tc.user.DisplayName(); got != tc.want {
					t.Errorf("expected %q, got %q", tc.want, got)
				}
			})
		}
	})
}

func TestResolveAssetURL(t *testing.T) {
	base := "http://h:9000/"

	cases := []struct {
		name string
		ref  string
		want string
	}{
		{"absolute https", "https://x/y.png", "https://x/y.png"},
		{"absolute http", "http://x/y.png", "http://x/y.png"},
		{"server relative", "/uploads/a.png", "http://h:9000/uploads/a.png"},
		{"bare filename", "a.png", "http://h:9000/uploads/a.png"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveAssetURL(base, tc.ref); got != tc.want {
				t.Errorf("ResolveAssetURL(%q, %q) = %q, want %q", base, tc.ref, got, tc.want)
			}
		})
	}

	t.Run("base without trailing slash", func(t *testing.T) {
		if got := ResolveAssetURL("http://h:9000", "a.png"); got != "http://h:9000/uploads/a.png" {
			t.Errorf("unexpected resolution: %q", got)
		}
	})
}
