package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.BaseURL == "" {
			t.Error("expected default base URL to be set")
		}
		if config.Server.Login() != "/admin/auth/login" {
			t.Errorf("expected default login path, got %s", config.Server.Login())
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Valid File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[server]
base_url = "http://h:9000"
login_path = "admin/auth/login"
timeout_seconds = 5

[database]
path = ":memory:"
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Server.BaseURL != "http://h:9000" {
				t.Errorf("unexpected base URL %s", config.Server.BaseURL)
			}
			if config.Server.Login() != "/admin/auth/login" {
				t.Errorf("expected leading slash added, got %s", config.Server.Login())
			}
			if config.Server.Timeout() != 5*time.Second {
				t.Errorf("expected 5s timeout, got %v", config.Server.Timeout())
			}
			if config.Database.Path != ":memory:" {
				t.Errorf("unexpected database path %s", config.Database.Path)
			}
		})

		t.Run("Missing File", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("Malformed File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte("[server\nbase_url"), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for malformed TOML")
			}
		})
	})

	t.Run("Timeout Defaults", func(t *testing.T) {
		var s ServerConfig
		if s.Timeout() != 30*time.Second {
			t.Errorf("expected 30s default, got %v", s.Timeout())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when file already exists")
		}
	})

	t.Run("SaveConfig Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Server.BaseURL = "http://elsewhere:8000"

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if loaded.Server.BaseURL != "http://elsewhere:8000" {
			t.Errorf("expected saved base URL, got %s", loaded.Server.BaseURL)
		}
	})
}
