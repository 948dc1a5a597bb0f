package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ferrovax/gamedesk/internal/formatter"
	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/services"
	"github.com/ferrovax/gamedesk/internal/shared"
)

// Engine defines long-running catalog operations.
type Engine interface {
	// Snapshot fetches the full catalog (entries and tags) from the backend.
	Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*models.CatalogExport, error)

	// Export writes a catalog snapshot to disk in the requested format.
	Export(ctx context.Context, progress chan<- ProgressUpdate, format, path string) (*ExportResult, error)

	// Pull downloads catalog asset files concurrently with rate limiting.
	Pull(ctx context.Context, progress chan<- ProgressUpdate, opts PullOpts) (*PullResult, error)
}

// ExportResult contains the files produced by Export.
type ExportResult struct {
	Format  string   `json:"format"`
	Files   []string `json:"files"`
	Entries int      `json:"entries"`
	Tags    int      `json:"tags"`
}

var _ Engine = (*CatalogEngine)(nil)

// CatalogEngine implements Engine against the admin backend.
type CatalogEngine struct {
	backend services.Backend
	baseURL string
	client  *http.Client
}

// NewCatalogEngine creates a CatalogEngine. baseURL is used to resolve
// relative asset references when downloading; client may be nil.
func NewCatalogEngine(backend services.Backend, baseURL string, client *http.Client) *CatalogEngine {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &CatalogEngine{
		backend: backend,
		baseURL: baseURL,
		client:  client,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Snapshot fetches all catalog entries and tags from the backend.
func (e *CatalogEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*models.CatalogExport, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: backend client not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchEntriesUpdate(1, 2))
	games, err := e.backend.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog entries: %w", err)
	}

	e.sendProgress(progress, fetchTagsUpdate(2, 2))
	tags, err := e.backend.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}

	return &models.CatalogExport{
		Games:      games,
		Tags:       tags,
		ExportedAt: time.Now().UTC(),
	}, nil
}

// Export fetches a snapshot and writes it in the requested format.
//
// Supported formats: json (default), csv, markdown, txt.
func (e *CatalogEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, format, path string) (*ExportResult, error) {
	export, err := e.Snapshot(ctx, progress)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		Format:  format,
		Entries: len(export.Games),
		Tags:    len(export.Tags),
	}

	e.sendProgress(progress, writeExportUpdate(1, 1, format))

	switch format {
	case "csv":
		csvRes, err := formatter.WriteCSVExport(export, path)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		result.Files = []string{csvRes.EntriesFile, csvRes.MetadataFile}

	case "markdown":
		mdFile, err := formatter.WriteMarkdownExport(export, path, e.baseURL)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		result.Files = []string{mdFile}

	case "txt":
		txtFile, err := formatter.WriteTextExport(export, path)
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		result.Files = []string{txtFile}

	case "json", "":
		if path == "" {
			path = "catalog.json"
		}
		data, err := shared.MarshalJSON(export, true)
		if err != nil {
			return nil, fmt.Errorf("JSON marshal failed: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("JSON write failed: %w", err)
		}
		result.Format = "json"
		result.Files = []string{path}

	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}

	return result, nil
}
