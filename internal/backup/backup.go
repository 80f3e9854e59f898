// Package backup encodes and decodes bundles as JSON, YAML and Excel workbooks.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lazypower/keepsharp/internal/analytics"
	"github.com/lazypower/keepsharp/internal/model"
)

// Format is a backup file format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	XLSX Format = "xlsx"
)

// ParseFormat accepts json, yaml (or yml) and xlsx. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "xlsx", "excel":
		return XLSX, nil
	default:
		return "", &model.ValidationError{Field: "format", Reason: "must be json, yaml or xlsx"}
	}
}

// FormatFromPath picks a format from a file extension, defaulting to json.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return JSON
	}
	return f
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case YAML:
		return "application/yaml"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Filename returns a dated download name for a bundle in format f.
func (f Format) Filename(b model.Bundle) string {
	return fmt.Sprintf("keepsharp-backup-%s.%s", b.ExportedAt.Format("2006-01-02"), f)
}

// Write encodes b to w in format f.
func Write(w io.Writer, b model.Bundle, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case YAML:
		return writeYAML(w, b)
	case XLSX:
		return writeXLSX(w, b)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// Read decodes a backup in format f. Structural problems are reported as
// model.ErrMalformedImport; unreadable records are skipped and counted.
func Read(r io.Reader, f Format) (*analytics.Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	switch f {
	case JSON:
		return analytics.DecodeBundle(data)
	case YAML:
		return readYAML(data)
	case XLSX:
		return readXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// YAML goes through the JSON form so both formats share one set of field
// names and one decoder.
func writeYAML(w io.Writer, b model.Bundle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func readYAML(data []byte) (*analytics.Decoded, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedImport, err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedImport, err)
	}
	return analytics.DecodeBundle(asJSON)
}
