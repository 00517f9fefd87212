package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Exporter writes the exercise log in one file format.
type Exporter interface {
	Export(rows []analyzer.LogRow, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format. An empty format means csv.
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", FormatCSV:
		return &CSVExporter{}, nil
	case FormatJSON:
		return &JSONExporter{}, nil
	case FormatYAML, "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, json, yaml)", format)
	}
}

// FileName is the attachment name of an export.
func FileName(e Exporter) string {
	return "gymlog." + e.Extension()
}

// ToFile exports rows to the file at path, creating its directory if needed.
func ToFile(e Exporter, rows []analyzer.LogRow, path string) (err error) {
	if err := pkg.EnsureParentDir(path); err != nil {
		return fmt.Errorf("export dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Errorf("close export file %s: %s", path, closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	if err := e.Export(rows, f); err != nil {
		return fmt.Errorf("export %s: %w", e.Extension(), err)
	}
	return nil
}
