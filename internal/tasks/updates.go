package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchEntries Phase = iota
	FetchTags
	WriteExport
	DownloadAssets
)

func (p Phase) String() string {
	switch p {
	case FetchEntries:
		return "fetch_entries"
	case FetchTags:
		return "fetch_tags"
	case WriteExport:
		return "write_export"
	case DownloadAssets:
		return "download_assets"
	default:
		return ""
	}
}

func fetchEntriesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEntries,
		Step:    step,
		Total:   total,
		Message: "Fetching catalog entries...",
	}
}

func fetchTagsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTags,
		Step:    step,
		Total:   total,
		Message: "Fetching tags...",
	}
}

func writeExportUpdate(step, total int, format string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Writing %s export...", format),
	}
}

func downloadStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAssets,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Downloading %d assets...", total),
	}
}

func downloadDoneUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, name),
	}
}

func downloadSkippedUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ~ %s (exists)", step, total, name),
	}
}

func downloadFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAssets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
