package main

import (
	"context"
	"fmt"

	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/ferrovax/gamedesk/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes a catalog snapshot to disk in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	if err := r.requireSession(); err != nil {
		return err
	}

	r.logger.Infof("exporting catalog as %v", format)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase.String())
		}
		close(done)
	}()

	result, err := r.engine.Export(ctx, progress, format, output)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.record("export", "catalog", "", result.Format)
	r.writePlain("✓ Exported %d entries and %d tags\n", result.Entries, result.Tags)
	for _, f := range result.Files {
		r.writePlain("  %s\n", f)
	}
	return nil
}
