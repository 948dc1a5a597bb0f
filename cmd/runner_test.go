package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/shared"
	tu "github.com/ferrovax/gamedesk/internal/testing"
	"github.com/urfave/cli/v3"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRunner(t *testing.T, backend *tu.MockBackend) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Backend: backend,
		DB:      newTestDB(t),
		Output:  output,
	})
	return runner, output
}

// run executes a CLI invocation against a fresh command tree.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "gamedesk", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"gamedesk"}, args...))
}

func login(t *testing.T, r *Runner) {
	t.Helper()
	if !r.session.Login(context.Background(), "admin", "pw") {
		t.Fatal("expected login to succeed")
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			backend := &tu.MockBackend{}
			db := newTestDB(t)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "config.toml",
				Backend:    backend,
				DB:         db,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "config.toml" {
				t.Error("expected configPath to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.backend != backend {
				t.Error("expected backend to be set")
			}
			if runner.db != db {
				t.Error("expected db to be set")
			}
			if runner.session == nil {
				t.Error("expected session store to be wired")
			}
			if runner.engine == nil {
				t.Error("expected catalog engine to be wired")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{DB: newTestDB(t)})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{DB: newTestDB(t)})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{DB: newTestDB(t)})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil backend uses HTTP client", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{DB: newTestDB(t)})

			if runner.backend != runner.client {
				t.Error("expected backend to default to the HTTP client")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			runner, output := newTestRunner(t, &tu.MockBackend{})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			runner, output := newTestRunner(t, &tu.MockBackend{})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !strings.Contains(output.String(), `{"key":"value"}`) {
				t.Errorf("expected compact JSON, got %s", output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner, _ := newTestRunner(t, &tu.MockBackend{})

			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected error")
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{DB: newTestDB(t), Output: &tu.FWriter{}})

			if err := runner.writeJSON("data", false); err == nil {
				t.Error("expected error")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			runner, output := newTestRunner(t, &tu.MockBackend{})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{DB: newTestDB(t), Output: &tu.FWriter{}})

			if err := runner.writePlain("hello"); err == nil {
				t.Error("expected error")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockBackend{})

		commands := runner.register()
		if len(commands) == 0 {
			t.Fatal("expected commands to be registered")
		}

		names := make(map[string]bool)
		for _, cmd := range commands {
			names[cmd.Name] = true
		}
		for _, want := range []string{"auth", "games", "tags", "users", "upload", "export", "assets", "audit", "setup", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("Login Persists Session", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockBackend{LoginToken: "tok"})

		if err := run(t, runner, "auth", "login", "-u", "admin", "-p", "pw"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Logged in as admin") {
			t.Errorf("unexpected output %q", output.String())
		}

		output.Reset()
		if err := run(t, runner, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Session active") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Login Failure Reports Error", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockBackend{LoginToken: ""})

		if err := run(t, runner, "auth", "login", "-u", "admin", "-p", "wrong"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("Logout Clears Session", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockBackend{LoginToken: "tok"})
		login(t, runner)

		if err := run(t, runner, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		output.Reset()
		if err := run(t, runner, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✗ Not logged in") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Commands Require Session", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockBackend{})

		if err := run(t, runner, "games", "list"); err == nil {
			t.Error("expected error without a session")
		}
	})
}

func TestGamesCommands(t *testing.T) {
	t.Run("List Filters By Query", func(t *testing.T) {
		backend := &tu.MockBackend{
			LoginToken: "tok",
			Games: []models.Game{
				{ID: "g1", Title: "Pong"},
				{ID: "g2", Title: "Tetris"},
			},
		}
		runner, output := newTestRunner(t, backend)
		login(t, runner)

		if err := run(t, runner, "games", "list", "-q", "pong"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Pong") || strings.Contains(output.String(), "Tetris") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Create Uploads Image Before Saving", func(t *testing.T) {
		backend := &tu.MockBackend{LoginToken: "tok", UploadURL: "/uploads/cover.png"}
		runner, output := newTestRunner(t, backend)
		login(t, runner)

		imagePath := filepath.Join(t.TempDir(), "cover.png")
		if err := os.WriteFile(imagePath, []byte("imagebytes"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := run(t, runner, "games", "create", "--title", "Pong", "--image", imagePath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var mutations []string
		for _, call := range backend.Calls {
			if call == "upload" || call == "create_game" {
				mutations = append(mutations, call)
			}
		}
		if len(mutations) != 2 || mutations[0] != "upload" || mutations[1] != "create_game" {
			t.Fatalf("expected upload before create, got %v", backend.Calls)
		}
		if backend.Games[0].Image != "/uploads/cover.png" {
			t.Errorf("expected uploaded reference on record, got %q", backend.Games[0].Image)
		}
		if !strings.Contains(output.String(), "✓ Entry created") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Update Changes Only Provided Flags", func(t *testing.T) {
		backend := &tu.MockBackend{
			LoginToken: "tok",
			Games:      []models.Game{{ID: "g1", Title: "Pong", Description: "classic"}},
		}
		runner, _ := newTestRunner(t, backend)
		login(t, runner)

		if err := run(t, runner, "games", "update", "--id", "g1", "--title", "Pong II"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if backend.Games[0].Title != "Pong II" {
			t.Errorf("expected title updated, got %q", backend.Games[0].Title)
		}
		if backend.Games[0].Description != "classic" {
			t.Errorf("expected description preserved, got %q", backend.Games[0].Description)
		}
	})

	t.Run("Update Unknown ID Fails", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockBackend{LoginToken: "tok"})
		login(t, runner)

		if err := run(t, runner, "games", "update", "--id", "missing", "--title", "X"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("Delete Requires Force", func(t *testing.T) {
		backend := &tu.MockBackend{
			LoginToken: "tok",
			Games:      []models.Game{{ID: "g1", Title: "Pong"}},
		}
		runner, output := newTestRunner(t, backend)
		login(t, runner)

		if err := run(t, runner, "games", "delete", "g1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(backend.Games) != 1 {
			t.Error("expected record untouched without --force")
		}
		if !strings.Contains(output.String(), "--force") {
			t.Errorf("expected confirmation hint, got %q", output.String())
		}

		if err := run(t, runner, "games", "delete", "g1", "--force"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(backend.Games) != 0 {
			t.Error("expected record deleted with --force")
		}
	})
}

func TestTagsCommands(t *testing.T) {
	t.Run("Create Defaults To Game Category", func(t *testing.T) {
		backend := &tu.MockBackend{LoginToken: "tok"}
		runner, _ := newTestRunner(t, backend)
		login(t, runner)

		if err := run(t, runner, "tags", "create", "Arcade"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(backend.Tags) != 1 || backend.Tags[0].BelongsTo != models.CategoryGame {
			t.Errorf("unexpected tags %v", backend.Tags)
		}
	})

	t.Run("List Groups By Category", func(t *testing.T) {
		backend := &tu.MockBackend{
			LoginToken: "tok",
			Tags: []models.Tag{
				{ID: "t1", Name: "Arcade", BelongsTo: models.CategoryGame},
				{ID: "t2", Name: "Utility", BelongsTo: models.CategoryApp},
			},
		}
		runner, output := newTestRunner(t, backend)
		login(t, runner)

		if err := run(t, runner, "tags", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := output.String()
		if !strings.Contains(out, "Game (1)") || !strings.Contains(out, "App (1)") {
			t.Errorf("expected grouped output, got %q", out)
		}
	})

	t.Run("Delete Requires Force", func(t *testing.T) {
		backend := &tu.MockBackend{
			LoginToken: "tok",
			Tags:       []models.Tag{{ID: "t1", Name: "Arcade"}},
		}
		runner, _ := newTestRunner(t, backend)
		login(t, runner)

		if err := run(t, runner, "tags", "delete", "t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(backend.Tags) != 1 {
			t.Error("expected tag untouched without --force")
		}

		if err := run(t, runner, "tags", "delete", "t1", "--force"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(backend.Tags) != 0 {
			t.Error("expected tag deleted with --force")
		}
	})
}

func TestUsersCommands(t *testing.T) {
	backend := func() *tu.MockBackend {
		return &tu.MockBackend{
			LoginToken: "tok",
			Users:      []models.UserAccount{{ID: "u1", Username: "alice"}},
		}
	}

	t.Run("Subscribe And Unsubscribe", func(t *testing.T) {
		b := backend()
		runner, _ := newTestRunner(t, b)
		login(t, runner)

		if err := run(t, runner, "users", "subscribe", "u1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !b.Users[0].Subscribed {
			t.Error("expected subscription granted")
		}

		if err := run(t, runner, "users", "unsubscribe", "u1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if b.Users[0].Subscribed {
			t.Error("expected subscription revoked")
		}
	})

	t.Run("List Shows Subscription Mark", func(t *testing.T) {
		b := backend()
		b.Users[0].Subscribed = true
		runner, output := newTestRunner(t, b)
		login(t, runner)

		if err := run(t, runner, "users", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ alice") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestAuditCommand(t *testing.T) {
	t.Run("Mutations Are Recorded", func(t *testing.T) {
		backend := &tu.MockBackend{LoginToken: "tok"}
		runner, output := newTestRunner(t, backend)
		login(t, runner)

		if err := run(t, runner, "tags", "create", "Arcade"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		output.Reset()
		if err := run(t, runner, "audit", "recent"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "create tag") {
			t.Errorf("expected audit entry, got %q", output.String())
		}
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("Writes JSON Snapshot", func(t *testing.T) {
		backend := &tu.MockBackend{
			LoginToken: "tok",
			Games:      []models.Game{{ID: "g1", Title: "Pong"}},
		}
		runner, output := newTestRunner(t, backend)
		login(t, runner)

		path := filepath.Join(t.TempDir(), "catalog.json")
		if err := run(t, runner, "export", "--format", "json", "-o", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Errorf("export not written: %v", err)
		}
		if !strings.Contains(output.String(), "✓ Exported 1 entries") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}
