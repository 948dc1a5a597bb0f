package main

import (
	"context"
	"fmt"

	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/ferrovax/gamedesk/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AssetsPull downloads every asset file the catalog references.
func (r *Runner) AssetsPull(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	opts := tasks.PullOpts{
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
		Overwrite:  cmd.Bool("overwrite"),
	}
	if opts.OutputDir == "" {
		opts.OutputDir = r.config.Assets.Dir
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = r.config.Assets.RatePerSecond
	}

	r.logger.Infof("pulling catalog assets into %v", opts.OutputDir)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		for update := range progress {
			if update.Phase == tasks.DownloadAssets && update.Step > 0 {
				r.writePlain("%s\n", update.Message)
			}
		}
		close(done)
	}()

	result, err := r.engine.Pull(ctx, progress, opts)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.record("pull", "assets", "", result.OutputDirectory)
	r.writePlainln("✓ Downloaded %d assets (%d skipped, %d failed)", result.Downloaded, result.Skipped, result.Failed)
	r.writePlain("  Directory: %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("  Manifest: %s\n", result.ManifestPath)
	}
	return nil
}
