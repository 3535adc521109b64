// package formatter renders villager rosters and collections to CSV, Markdown, plain text, YAML and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/villagers"
	"gopkg.in/yaml.v3"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText, FormatYAML}

// ParseFormat resolves a format name. Common aliases (md, text, yml) are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json", "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Section is a named list of villagers within an export.
type Section struct {
	Name      string              `json:"name" yaml:"name"`
	Villagers []villagers.Summary `json:"villagers" yaml:"villagers"`
}

// Export is a titled set of sections. A roster export has one section; a
// collection export has one per list.
type Export struct {
	Title       string    `json:"title" yaml:"title"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// NewRosterExport wraps a single list of villagers.
func NewRosterExport(title string, summaries []villagers.Summary) *Export {
	return &Export{
		Title:       title,
		GeneratedAt: time.Now().UTC(),
		Sections:    []Section{{Name: "Villagers", Villagers: summaries}},
	}
}

// NewCollectionExport builds an export with Have and Want sections.
func NewCollectionExport(have, want []villagers.Summary) *Export {
	return &Export{
		Title:       "My Villager Collection",
		GeneratedAt: time.Now().UTC(),
		Sections: []Section{
			{Name: "Have", Villagers: have},
			{Name: "Want", Villagers: want},
		},
	}
}

// Count is the number of villagers across sections.
func (e *Export) Count() int {
	n := 0
	for _, s := range e.Sections {
		n += len(s.Villagers)
	}
	return n
}

// ExportToCSV writes one row per villager with columns: List, ID, Name, Species, Gender, Personality, Birthday, Catchphrase, Hobby, Favorite Colors, Image URL
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"List", "ID", "Name", "Species", "Gender", "Personality", "Birthday", "Catchphrase", "Hobby", "Favorite Colors", "Image URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, section := range export.Sections {
		for _, v := range section.Villagers {
			record := []string{
				section.Name,
				fmt.Sprint(v.ID),
				v.Name,
				v.Species,
				v.Gender,
				v.Personality,
				v.Birthday,
				v.Catchphrase,
				v.Hobby,
				strings.Join(v.FavoriteColors, "; "),
				v.ImageURL,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders each section as a table.
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Title))
	buf.WriteString(fmt.Sprintf("**Villagers**: %d\n", export.Count()))
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n", export.GeneratedAt.Format(time.RFC3339)))

	for _, section := range export.Sections {
		buf.WriteString(fmt.Sprintf("\n## %s (%d)\n\n", section.Name, len(section.Villagers)))
		if len(section.Villagers) == 0 {
			buf.WriteString("_Nobody yet._\n")
			continue
		}

		buf.WriteString("| # | Name | Species | Personality | Birthday | Hobby |\n")
		buf.WriteString("|---|---|---|---|---|---|\n")
		for i, v := range section.Villagers {
			buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
				i+1, escapeCell(v.Name), escapeCell(v.Species), escapeCell(v.Personality), escapeCell(v.Birthday), escapeCell(v.Hobby)))
		}
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportToText renders a numbered plain-text list per section.
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", export.Title))
	buf.WriteString(fmt.Sprintf("Villagers: %d\n", export.Count()))

	for _, section := range export.Sections {
		buf.WriteString(fmt.Sprintf("\n%s (%d)\n", section.Name, len(section.Villagers)))
		for i, v := range section.Villagers {
			buf.WriteString(fmt.Sprintf("%d. %s - %s %s (%s)\n", i+1, v.Name, v.Personality, v.Species, v.Birthday))
		}
	}

	return buf.Bytes(), nil
}

// ExportToYAML encodes the export with two-space indentation.
func ExportToYAML(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(export); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToJSON encodes the export as indented JSON.
func ExportToJSON(export *Export) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// Render encodes export in format.
func Render(export *Export, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatYAML:
		return ExportToYAML(export)
	case FormatJSON:
		return ExportToJSON(export)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
}

// WriteExport renders export and writes it to path, creating parent directories.
//
// An empty path defaults to villagers.{ext} in the working directory.
func WriteExport(export *Export, format Format, path string) (string, error) {
	if path == "" {
		path = "villagers." + format.Extension()
	}

	data, err := Render(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
