package models

import "time"

// CatalogExport is a point-in-time snapshot of the catalog, assembled from
// the list endpoints for offline inspection or backup.
type CatalogExport struct {
	Games      []Game    `json:"games"`
	Tags       []Tag     `json:"tags"`
	ExportedAt time.Time `json:"exported_at"`
}

// TagName resolves a tag ID to its name, falling back to the raw ID for
// references the export does not cover.
func (e *CatalogExport) TagName(id string) string {
	for _, t := range e.Tags {
		if t.ID == id {
			return t.Name
		}
	}
	return id
}
