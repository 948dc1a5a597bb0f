package main

import (
	"context"
	"fmt"

	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuditRecent prints the most recent entries from the local audit log.
func (r *Runner) AuditRecent(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	useJSON := cmd.Bool("json")

	if r.audit == nil {
		return fmt.Errorf("%w: state database unavailable", shared.ErrServiceUnavailable)
	}

	entries, err := r.audit.Recent(limit)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if useJSON {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		return r.writePlain("No recorded actions.\n")
	}

	for _, entry := range entries {
		line := fmt.Sprintf("%s  %s %s", entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Action, entry.Resource)
		if entry.RecordID != "" {
			line += " " + entry.RecordID
		}
		if entry.Detail != "" {
			line += "  (" + entry.Detail + ")"
		}
		r.writePlain("%s\n", line)
	}

	return nil
}
