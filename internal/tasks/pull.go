package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/shared"
	"golang.org/x/time/rate"
)

// PullOpts contains configuration for bulk asset downloads.
type PullOpts struct {
	OutputDir  string  // Base output directory (default: assets_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
	Overwrite  bool    // Re-download assets that already exist locally
}

// AssetJob is a single asset reference queued for download.
type AssetJob struct {
	GameID    string
	GameTitle string
	Ref       string // raw reference as stored on the record
	URL       string // resolved absolute URL
}

// AssetResult records the outcome of downloading one asset.
type AssetResult struct {
	GameID  string `json:"game_id"`
	Ref     string `json:"ref"`
	File    string `json:"file,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PullResult summarizes a bulk asset download.
type PullResult struct {
	TotalAssets     int           `json:"total_assets"`
	Downloaded      int           `json:"downloaded"`
	Skipped         int           `json:"skipped"`
	Failed          int           `json:"failed"`
	OutputDirectory string        `json:"output_directory"`
	ManifestPath    string        `json:"manifest_path,omitempty"`
	Results         []AssetResult `json:"results"`
}

// Pull downloads every asset file referenced by the catalog (images,
// screenshots) into a local directory.
//
// This method implements a worker pool pattern to download assets
// concurrently. It respects server rate limits, handles partial failures
// gracefully, and generates a manifest file summarizing the results.
func (e *CatalogEngine) Pull(ctx context.Context, progress chan<- ProgressUpdate, opts PullOpts) (*PullResult, error) {
	export, err := e.Snapshot(ctx, progress)
	if err != nil {
		return nil, err
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("assets_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	pending := collectAssets(export, e.baseURL)

	result := &PullResult{
		TotalAssets:     len(pending),
		OutputDirectory: opts.OutputDir,
		Results:         make([]AssetResult, 0, len(pending)),
	}
	e.sendProgress(progress, downloadStartUpdate(len(pending)))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan AssetJob, len(pending))
	results := make(chan AssetResult, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.pullWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	for _, job := range pending {
		jobs <- job
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		name := path.Base(res.Ref)
		switch {
		case res.Error != "":
			result.Failed++
			e.sendProgress(progress, downloadFailedUpdate(completed, len(pending), name, fmt.Errorf("%s", res.Error)))
		case res.Skipped:
			result.Skipped++
			e.sendProgress(progress, downloadSkippedUpdate(completed, len(pending), name))
		default:
			result.Downloaded++
			e.sendProgress(progress, downloadDoneUpdate(completed, len(pending), name))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "pull_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("pull completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("pull completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// collectAssets gathers every non-empty asset reference in the catalog,
// deduplicated by resolved URL.
func collectAssets(export *models.CatalogExport, baseURL string) []AssetJob {
	seen := make(map[string]struct{})
	var jobs []AssetJob

	add := func(game models.Game, ref string) {
		if ref == "" {
			return
		}
		url := models.ResolveAssetURL(baseURL, ref)
		if _, ok := seen[url]; ok {
			return
		}
		seen[url] = struct{}{}
		jobs = append(jobs, AssetJob{
			GameID:    game.ID,
			GameTitle: game.Title,
			Ref:       ref,
			URL:       url,
		})
	}

	for _, game := range export.Games {
		add(game, game.Image)
		for _, shot := range game.Screenshots {
			add(game, shot)
		}
	}
	return jobs
}

// pullWorker is a worker goroutine that downloads assets from the jobs channel.
func (e *CatalogEngine) pullWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan AssetJob,
	results chan<- AssetResult,
	opts PullOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		results <- e.downloadAsset(ctx, job, opts)
	}
}

// downloadAsset fetches a single asset and writes it under the output
// directory, keyed by the asset's base filename.
func (e *CatalogEngine) downloadAsset(ctx context.Context, job AssetJob, opts PullOpts) AssetResult {
	result := AssetResult{GameID: job.GameID, Ref: job.Ref}

	dest := filepath.Join(opts.OutputDir, path.Base(job.Ref))
	if !opts.Overwrite {
		if _, err := os.Stat(dest); err == nil {
			result.File = dest
			result.Skipped = true
			return result
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	resp, err := e.client.Do(req)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("status %d", resp.StatusCode)
		return result
	}

	f, err := os.Create(dest)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		result.Error = err.Error()
		return result
	}
	if err := f.Close(); err != nil {
		result.Error = err.Error()
		return result
	}

	result.File = dest
	return result
}
