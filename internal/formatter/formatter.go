// package formatter exports fetched YouTube playlists to CSV, Markdown, plain text and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
)

// Format names an export format accepted by [Write].
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// Formats lists every supported format in help order.
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// ParseFormat accepts a format name case-insensitively, with "markdown" and "text" as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// ExportToCSV converts a playlist to CSV with columns: Position, Video ID, Title, Channel, URL
func ExportToCSV(wrapper *models.PlaylistWrapper) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Video ID", "Title", "Channel", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range wrapper.Items {
		record := []string{
			strconv.Itoa(item.Position),
			item.VideoID,
			item.Title,
			item.ChannelTitle,
			item.URL(),
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

// ExportToMarkdown converts a playlist to a Markdown document with one linked entry per video
func ExportToMarkdown(wrapper *models.PlaylistWrapper) ([]byte, error) {
	var buf bytes.Buffer
	p := wrapper.Playlist

	fmt.Fprintf(&buf, "# %s\n\n", p.Title)

	if p.ChannelTitle != "" {
		fmt.Fprintf(&buf, "**Channel**: %s\n", p.ChannelTitle)
	}
	if p.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n", p.Description)
	}
	fmt.Fprintf(&buf, "**Videos**: %d\n", len(wrapper.Items))
	fmt.Fprintf(&buf, "**Playlist**: https://www.youtube.com/playlist?list=%s\n\n", p.ID)

	buf.WriteString("## Videos\n\n")
	for i, item := range wrapper.Items {
		channel := ""
		if item.ChannelTitle != "" {
			channel = fmt.Sprintf(" (%s)", item.ChannelTitle)
		}
		fmt.Fprintf(&buf, "%d. [%s](%s)%s\n", i+1, item.Title, item.URL(), channel)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist to plain text
func ExportToText(wrapper *models.PlaylistWrapper) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", wrapper.Playlist.Title)
	if wrapper.Playlist.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", wrapper.Playlist.Description)
	}
	fmt.Fprintf(&buf, "Videos: %d\n\n", len(wrapper.Items))

	for i, item := range wrapper.Items {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, item.Title, item.URL())
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes the playlist and its items as indented JSON
func ExportToJSON(wrapper *models.PlaylistWrapper) ([]byte, error) {
	data, err := json.MarshalIndent(wrapper, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode playlist: %w", err)
	}
	return append(data, '\n'), nil
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without items)
func ToMetadataJSON(playlist models.Playlist) ([]byte, error) {
	data, err := json.MarshalIndent(playlist, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode playlist metadata: %w", err)
	}
	return data, nil
}

// Export renders wrapper in format.
func Export(wrapper *models.PlaylistWrapper, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(wrapper)
	case FormatMarkdown:
		return ExportToMarkdown(wrapper)
	case FormatText:
		return ExportToText(wrapper)
	case FormatJSON:
		return ExportToJSON(wrapper)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ItemsFile    string
	MetadataFile string
}

// WriteCSVExport exports a playlist to CSV format with accompanying metadata JSON file.
//
// Defaults to playlist ID as the base filename & creates {base}_videos.csv and {base}_metadata.json
func WriteCSVExport(wrapper *models.PlaylistWrapper, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = wrapper.Playlist.ID
	}

	csvData, err := ExportToCSV(wrapper)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	itemsFile := baseFilepath + "_videos.csv"
	if err := os.WriteFile(itemsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(wrapper.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ItemsFile:    itemsFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a playlist to {dir}/README.md.
//
// Directory name defaults to the playlist ID.
func WriteMarkdownExport(wrapper *models.PlaylistWrapper, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = wrapper.Playlist.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(wrapper)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports a playlist to plain text format.
//
// Defaults to {playlist.ID}_videos.txt as the filename.
func WriteTextExport(wrapper *models.PlaylistWrapper, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_videos.txt", wrapper.Playlist.ID)
	}

	textData, err := ExportToText(wrapper)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport exports a playlist to JSON. Defaults to {playlist.ID}.json.
func WriteJSONExport(wrapper *models.PlaylistWrapper, path string) (string, error) {
	if path == "" {
		path = wrapper.Playlist.ID + ".json"
	}

	data, err := ExportToJSON(wrapper)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return path, nil
}

// Write saves wrapper in format under target and returns every file written.
//
// An empty target falls back to each writer's playlist-ID default.
func Write(wrapper *models.PlaylistWrapper, format Format, target string) ([]string, error) {
	switch format {
	case FormatCSV:
		result, err := WriteCSVExport(wrapper, target)
		if err != nil {
			return nil, err
		}
		return []string{result.ItemsFile, result.MetadataFile}, nil
	case FormatMarkdown:
		path, err := WriteMarkdownExport(wrapper, target)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case FormatText:
		path, err := WriteTextExport(wrapper, target)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case FormatJSON:
		path, err := WriteJSONExport(wrapper, target)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}
