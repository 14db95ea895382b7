package formatter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
	th "github.com/desertthunder/callouts/internal/testing"
)

func samplePlaylist() *models.PlaylistWrapper {
	wrapper := th.SamplePlaylist("PLtest123", "vidA", "vidB")
	wrapper.Playlist.Description = "Callouts for every map"
	wrapper.Items[1].Title = "Moray Towers, with commas"
	return wrapper
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(samplePlaylist())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines: %s", len(lines), output)
		}
		if lines[0] != "Position,Video ID,Title,Channel,URL" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != "0,vidA,Video vidA,Zageron,https://www.youtube.com/watch?v=vidA" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.Contains(lines[2], `"Moray Towers, with commas"`) {
			t.Errorf("expected quoted title, got: %s", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(samplePlaylist())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Splatoon Callouts\n",
			"**Channel**: Zageron",
			"**Description**: Callouts for every map",
			"**Videos**: 2",
			"https://www.youtube.com/playlist?list=PLtest123",
			"1. [Video vidA](https://www.youtube.com/watch?v=vidA) (Zageron)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q:\n%s", want, output)
			}
		}

		t.Run("without description", func(t *testing.T) {
			wrapper := samplePlaylist()
			wrapper.Playlist.Description = ""
			data, _ := ExportToMarkdown(wrapper)
			if strings.Contains(string(data), "**Description**") {
				t.Error("empty description should be omitted")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(samplePlaylist())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Playlist: Splatoon Callouts\nDescription: Callouts for every map\nVideos: 2\n\n") {
			t.Errorf("unexpected header:\n%s", output)
		}
		if !strings.Contains(output, "2. Moray Towers, with commas - https://www.youtube.com/watch?v=vidB") {
			t.Errorf("missing item line:\n%s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(samplePlaylist())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded models.PlaylistWrapper
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Playlist.ID != "PLtest123" || len(decoded.Items) != 2 {
			t.Errorf("unexpected decoded playlist %+v", decoded)
		}
		if strings.Contains(string(data), "fetched_at") {
			t.Error("zero fetch time should be omitted")
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(samplePlaylist().Playlist)
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}
		if strings.Contains(string(data), "items") {
			t.Error("metadata should not include items")
		}
		if !strings.Contains(string(data), `"channel_title": "Zageron"`) {
			t.Errorf("unexpected metadata: %s", data)
		}
	})

	t.Run("Export unknown format", func(t *testing.T) {
		if _, err := Export(samplePlaylist(), Format("xml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"text", FormatText, false},
		{"", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			result, err := WriteCSVExport(samplePlaylist(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if result.ItemsFile != "PLtest123_videos.csv" || result.MetadataFile != "PLtest123_metadata.json" {
				t.Errorf("unexpected files %+v", result)
			}
			th.AssertFileExists(t, result.ItemsFile)
			th.AssertFileExists(t, result.MetadataFile)
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "callouts")

			result, err := WriteCSVExport(samplePlaylist(), base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if result.ItemsFile != base+"_videos.csv" {
				t.Errorf("unexpected items file %q", result.ItemsFile)
			}
			if !strings.Contains(th.MustReadFile(t, result.ItemsFile), "vidB") {
				t.Error("items file missing video")
			}
		})

		t.Run("UnwritableDirectory", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "missing", "callouts")
			if _, err := WriteCSVExport(samplePlaylist(), base); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithDefaultDirectory", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			path, err := WriteMarkdownExport(samplePlaylist(), "")
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if path != filepath.Join("PLtest123", "README.md") {
				t.Errorf("unexpected path %q", path)
			}
			th.AssertDirExists(t, "PLtest123")
		})

		t.Run("WithCustomDirectory", func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested", "out")

			path, err := WriteMarkdownExport(samplePlaylist(), dir)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if !strings.HasPrefix(th.MustReadFile(t, path), "# Splatoon Callouts") {
				t.Error("unexpected markdown content")
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			path, err := WriteTextExport(samplePlaylist(), "")
			if err != nil {
				t.Fatalf("WriteTextExport failed: %v", err)
			}
			if path != "PLtest123_videos.txt" {
				t.Errorf("unexpected path %q", path)
			}
			th.AssertFileExists(t, path)
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.txt")
			got, err := WriteTextExport(samplePlaylist(), path)
			if err != nil || got != path {
				t.Fatalf("WriteTextExport() = %q, %v", got, err)
			}
		})
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		th.MustChdir(t, t.TempDir())

		path, err := WriteJSONExport(samplePlaylist(), "")
		if err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}
		if path != "PLtest123.json" {
			t.Errorf("unexpected path %q", path)
		}
	})

	t.Run("Write", func(t *testing.T) {
		dir := t.TempDir()

		for _, format := range Formats {
			t.Run(string(format), func(t *testing.T) {
				files, err := Write(samplePlaylist(), format, filepath.Join(dir, string(format)))
				if err != nil {
					t.Fatalf("Write(%s) failed: %v", format, err)
				}
				for _, f := range files {
					if _, err := os.Stat(f); err != nil {
						t.Errorf("expected %s to exist: %v", f, err)
					}
				}
			})
		}

		if _, err := Write(samplePlaylist(), Format("xml"), ""); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
