package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ferrovax/gamedesk/internal/models"
	tu "github.com/ferrovax/gamedesk/internal/testing"
)

func TestSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetches Entries And Tags", func(t *testing.T) {
		backend := &tu.MockBackend{
			Games: []models.Game{{ID: "g1", Title: "Pong"}},
			Tags:  []models.Tag{{ID: "t1", Name: "Arcade"}},
		}
		engine := NewCatalogEngine(backend, "http://localhost:9000", nil)

		export, err := engine.Snapshot(ctx, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(export.Games) != 1 || len(export.Tags) != 1 {
			t.Errorf("unexpected snapshot: %+v", export)
		}
		if export.ExportedAt.IsZero() {
			t.Error("expected export timestamp set")
		}
	})

	t.Run("Backend Failure Propagates", func(t *testing.T) {
		backend := &tu.MockBackend{Err: errors.New("backend down")}
		engine := NewCatalogEngine(backend, "", nil)

		if _, err := engine.Snapshot(ctx, nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("Emits Progress Updates", func(t *testing.T) {
		backend := &tu.MockBackend{}
		engine := NewCatalogEngine(backend, "", nil)
		progress := make(chan ProgressUpdate, 8)

		if _, err := engine.Snapshot(ctx, progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) != 2 || phases[0] != FetchEntries || phases[1] != FetchTags {
			t.Errorf("unexpected phases: %v", phases)
		}
	})
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	backend := &tu.MockBackend{
		Games: []models.Game{{ID: "g1", Title: "Pong", Category: models.CategoryGame}},
		Tags:  []models.Tag{{ID: "t1", Name: "Arcade", BelongsTo: models.CategoryGame}},
	}

	t.Run("JSON Is The Default Format", func(t *testing.T) {
		engine := NewCatalogEngine(backend, "", nil)
		path := filepath.Join(t.TempDir(), "snapshot.json")

		result, err := engine.Export(ctx, nil, "", path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Format != "json" || result.Entries != 1 {
			t.Errorf("unexpected result: %+v", result)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("export not written: %v", err)
		}
		var export models.CatalogExport
		if err := json.Unmarshal(data, &export); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if len(export.Games) != 1 || export.Games[0].Title != "Pong" {
			t.Errorf("unexpected export contents: %+v", export)
		}
	})

	t.Run("CSV Writes Entries And Metadata", func(t *testing.T) {
		engine := NewCatalogEngine(backend, "", nil)
		base := filepath.Join(t.TempDir(), "catalog")

		result, err := engine.Export(ctx, nil, "csv", base)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Files) != 2 {
			t.Fatalf("expected two files, got %v", result.Files)
		}
		for _, f := range result.Files {
			if _, err := os.Stat(f); err != nil {
				t.Errorf("file not written: %v", err)
			}
		}
	})

	t.Run("Unknown Format Rejected", func(t *testing.T) {
		engine := NewCatalogEngine(backend, "", nil)

		if _, err := engine.Export(ctx, nil, "yaml", ""); err == nil {
			t.Error("expected error")
		}
	})
}

func TestPull(t *testing.T) {
	ctx := context.Background()

	newAssetServer := func(t *testing.T) *httptest.Server {
		t.Helper()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/uploads/missing.png" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte("bytes for " + r.URL.Path))
		}))
		t.Cleanup(server.Close)
		return server
	}

	t.Run("Downloads Every Referenced Asset", func(t *testing.T) {
		server := newAssetServer(t)
		backend := &tu.MockBackend{
			Games: []models.Game{
				{ID: "g1", Title: "Pong", Image: "pong.png", Screenshots: []string{"shot1.png"}},
				{ID: "g2", Title: "Notepad", Image: "/uploads/notepad.png"},
			},
		}
		engine := NewCatalogEngine(backend, server.URL, server.Client())
		dir := t.TempDir()

		result, err := engine.Pull(ctx, nil, PullOpts{OutputDir: dir, NumWorkers: 2, RateLimit: 100})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.TotalAssets != 3 || result.Downloaded != 3 || result.Failed != 0 {
			t.Errorf("unexpected result: %+v", result)
		}
		for _, name := range []string{"pong.png", "shot1.png", "notepad.png"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("asset %s not written: %v", name, err)
			}
		}
	})

	t.Run("Writes Manifest", func(t *testing.T) {
		server := newAssetServer(t)
		backend := &tu.MockBackend{
			Games: []models.Game{{ID: "g1", Title: "Pong", Image: "pong.png"}},
		}
		engine := NewCatalogEngine(backend, server.URL, server.Client())
		dir := t.TempDir()

		result, err := engine.Pull(ctx, nil, PullOpts{OutputDir: dir})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(result.ManifestPath)
		if err != nil {
			t.Fatalf("manifest not written: %v", err)
		}
		var manifest PullResult
		if err := json.Unmarshal(data, &manifest); err != nil {
			t.Fatalf("expected valid manifest JSON, got %v", err)
		}
		if manifest.Downloaded != 1 {
			t.Errorf("unexpected manifest: %+v", manifest)
		}
	})

	t.Run("Partial Failure Is Not Fatal", func(t *testing.T) {
		server := newAssetServer(t)
		backend := &tu.MockBackend{
			Games: []models.Game{
				{ID: "g1", Title: "Pong", Image: "pong.png"},
				{ID: "g2", Title: "Broken", Image: "missing.png"},
			},
		}
		engine := NewCatalogEngine(backend, server.URL, server.Client())
		dir := t.TempDir()

		result, err := engine.Pull(ctx, nil, PullOpts{OutputDir: dir})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Downloaded != 1 || result.Failed != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("Existing Files Skipped Unless Overwrite", func(t *testing.T) {
		server := newAssetServer(t)
		backend := &tu.MockBackend{
			Games: []models.Game{{ID: "g1", Title: "Pong", Image: "pong.png"}},
		}
		engine := NewCatalogEngine(backend, server.URL, server.Client())
		dir := t.TempDir()

		if err := os.WriteFile(filepath.Join(dir, "pong.png"), []byte("stale"), 0644); err != nil {
			t.Fatal(err)
		}

		result, err := engine.Pull(ctx, nil, PullOpts{OutputDir: dir})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Skipped != 1 || result.Downloaded != 0 {
			t.Errorf("expected existing file skipped, got %+v", result)
		}

		result, err = engine.Pull(ctx, nil, PullOpts{OutputDir: dir, Overwrite: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Downloaded != 1 {
			t.Errorf("expected overwrite to re-download, got %+v", result)
		}

		data, _ := os.ReadFile(filepath.Join(dir, "pong.png"))
		if string(data) == "stale" {
			t.Error("expected file replaced")
		}
	})

	t.Run("Duplicate References Deduplicated", func(t *testing.T) {
		server := newAssetServer(t)
		backend := &tu.MockBackend{
			Games: []models.Game{
				{ID: "g1", Title: "Pong", Image: "shared.png"},
				{ID: "g2", Title: "Pong II", Image: "shared.png"},
			},
		}
		engine := NewCatalogEngine(backend, server.URL, server.Client())

		result, err := engine.Pull(ctx, nil, PullOpts{OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.TotalAssets != 1 {
			t.Errorf("expected one deduplicated asset, got %+v", result)
		}
	})
}
