package export

import (
	"io"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"

	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the log as a YAML sequence.
type YAMLExporter struct{}

func (e *YAMLExporter) Export(rows []analyzer.LogRow, w io.Writer) error {
	if rows == nil {
		rows = []analyzer.LogRow{}
	}
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(rows)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
