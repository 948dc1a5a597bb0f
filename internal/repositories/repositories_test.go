package repositories

import (
	"testing"
	"time"

	"github.com/ferrovax/gamedesk/internal/shared"
	"golang.org/x/oauth2"
)

func newTestDB(t *testing.T) *testDB {
	t.Helper()
	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &testDB{creds: NewCredentialRepository(db), audit: NewAuditRepository(db)}
}

type testDB struct {
	creds *CredentialRepository
	audit *AuditRepository
}

func TestCredentialRepository(t *testing.T) {
	t.Run("Load Empty Store", func(t *testing.T) {
		tdb := newTestDB(t)

		token, err := tdb.creds.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != nil {
			t.Errorf("expected nil token, got %v", token)
		}
	})

	t.Run("Save And Load", func(t *testing.T) {
		tdb := newTestDB(t)

		if err := tdb.creds.Save(&oauth2.Token{AccessToken: "tok123"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		token, err := tdb.creds.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token == nil || token.AccessToken != "tok123" {
			t.Fatalf("expected stored token, got %v", token)
		}

		remaining := time.Until(token.Expiry)
		if remaining <= 6*24*time.Hour || remaining > TokenTTL {
			t.Errorf("expected ~7 day expiry window, got %v", remaining)
		}
	})

	t.Run("Save Replaces Previous Token", func(t *testing.T) {
		tdb := newTestDB(t)

		tdb.creds.Save(&oauth2.Token{AccessToken: "old"})
		tdb.creds.Save(&oauth2.Token{AccessToken: "new"})

		token, err := tdb.creds.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.AccessToken != "new" {
			t.Errorf("expected replacement, got %s", token.AccessToken)
		}
	})

	t.Run("Expired Token Not Returned", func(t *testing.T) {
		tdb := newTestDB(t)

		expired := &oauth2.Token{AccessToken: "tok", Expiry: time.Now().Add(-time.Hour)}
		if err := tdb.creds.Save(expired); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		token, err := tdb.creds.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != nil {
			t.Errorf("expected expired token dropped, got %v", token)
		}
	})

	t.Run("Refuses Empty Token", func(t *testing.T) {
		tdb := newTestDB(t)
		if err := tdb.creds.Save(&oauth2.Token{}); err == nil {
			t.Error("expected error for empty token")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		tdb := newTestDB(t)

		tdb.creds.Save(&oauth2.Token{AccessToken: "tok"})
		if err := tdb.creds.Clear(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		token, _ := tdb.creds.Load()
		if token != nil {
			t.Errorf("expected cleared store, got %v", token)
		}

		t.Run("Idempotent", func(t *testing.T) {
			if err := tdb.creds.Clear(); err != nil {
				t.Errorf("expected clearing empty store to succeed, got %v", err)
			}
		})
	})
}

func TestAuditRepository(t *testing.T) {
	t.Run("Record And Recent", func(t *testing.T) {
		tdb := newTestDB(t)

		if err := tdb.audit.Record("create", "tags", "t1", "RPG"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := tdb.audit.Record("delete", "tags", "t1", ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		entries, err := tdb.audit.Recent(10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		for _, e := range entries {
			if e.ID == "" {
				t.Error("expected generated IDs")
			}
			if e.Resource != "tags" {
				t.Errorf("unexpected resource %q", e.Resource)
			}
		}
	})

	t.Run("Recent Limit", func(t *testing.T) {
		tdb := newTestDB(t)

		for range 5 {
			tdb.audit.Record("update", "games", "g1", "")
		}

		entries, err := tdb.audit.Recent(3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 3 {
			t.Errorf("expected 3 entries, got %d", len(entries))
		}
	})
}
