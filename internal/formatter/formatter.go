// package formatter provides functions to export catalog data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ferrovax/gamedesk/internal/models"
	"github.com/ferrovax/gamedesk/internal/shared"
)

// ExportToCSV converts a CatalogExport to CSV format with columns: ID, Title, Category, Tags, File, Image, Video
func ExportToCSV(export *models.CatalogExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Category", "Tags", "File", "Image", "Video"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, game := range export.Games {
		record := []string{
			game.ID,
			game.Title,
			game.Category,
			tagNames(export, game.AdditionalTags),
			game.Path,
			game.Image,
			game.VideoLink,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a CatalogExport to Markdown format. Image
// references are resolved against baseURL so links work outside the server.
func ExportToMarkdown(export *models.CatalogExport, baseURL string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Catalog\n\n")
	buf.WriteString(fmt.Sprintf("**Entries**: %d\n", len(export.Games)))
	buf.WriteString(fmt.Sprintf("**Tags**: %d\n", len(export.Tags)))
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n\n", export.ExportedAt.Format("2006-01-02 15:04")))

	for _, group := range models.GroupTags(export.Tags) {
		if len(group.Tags) == 0 {
			continue
		}
		names := make([]string, 0, len(group.Tags))
		for _, t := range group.Tags {
			names = append(names, t.Name)
		}
		buf.WriteString(fmt.Sprintf("**%s tags**: %s\n\n", group.Category, strings.Join(names, ", ")))
	}

	buf.WriteString("## Entries\n\n")
	for i, game := range export.Games {
		buf.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, game.Title))

		if game.Image != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", game.Title, models.ResolveAssetURL(baseURL, game.Image)))
		}
		if game.Description != "" {
			buf.WriteString(game.Description + "\n\n")
		}

		buf.WriteString(fmt.Sprintf("- Category: %s\n", game.Category))
		if tags := tagNames(export, game.AdditionalTags); tags != "" {
			buf.WriteString(fmt.Sprintf("- Tags: %s\n", tags))
		}
		if game.Path != "" {
			buf.WriteString(fmt.Sprintf("- File: %s\n", game.Path))
		}
		if game.VideoLink != "" {
			buf.WriteString(fmt.Sprintf("- Video: %s\n", models.ResolveAssetURL(baseURL, game.VideoLink)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a CatalogExport to plain text format
func ExportToText(export *models.CatalogExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Catalog entries: %d\n", len(export.Games)))
	buf.WriteString(fmt.Sprintf("Tags: %d\n\n", len(export.Tags)))

	for i, game := range export.Games {
		line := fmt.Sprintf("%d. %s [%s]", i+1, game.Title, game.Category)
		if tags := tagNames(export, game.AdditionalTags); tags != "" {
			line += " (" + tags + ")"
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

func tagNames(export *models.CatalogExport, refs models.TagRefs) string {
	names := make([]string, 0, len(refs))
	for _, id := range refs {
		names = append(names, export.TagName(id))
	}
	return strings.Join(names, "; ")
}

// ToMetadataJSON generates a JSON representation of catalog tags and counts
// (without entry bodies)
func ToMetadataJSON(export *models.CatalogExport) ([]byte, error) {
	meta := struct {
		Entries    int          `json:"entries"`
		Tags       []models.Tag `json:"tags"`
		ExportedAt string       `json:"exported_at"`
	}{
		Entries:    len(export.Games),
		Tags:       export.Tags,
		ExportedAt: export.ExportedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	return shared.MarshalJSON(meta, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	EntriesFile  string
	MetadataFile string
}

// WriteCSVExport exports the catalog to CSV format with an accompanying metadata JSON file.
//
// Defaults to "catalog" as the base filename & creates {base}_entries.csv and {base}_metadata.json
func WriteCSVExport(export *models.CatalogExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "catalog"
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	entriesFile := baseFilepath + "_entries.csv"
	if err := os.WriteFile(entriesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		EntriesFile:  entriesFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports the catalog to Markdown in a dedicated directory.
//
// Directory name defaults to "catalog". Creates {dir}/README.md.
func WriteMarkdownExport(export *models.CatalogExport, outputDir string, baseURL string) (string, error) {
	if outputDir == "" {
		outputDir = "catalog"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports the catalog to plain text format.
//
// Defaults to catalog_entries.txt as the filename.
func WriteTextExport(export *models.CatalogExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = "catalog_entries.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
