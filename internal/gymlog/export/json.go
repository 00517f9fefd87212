package export

import (
	"encoding/json"
	"io"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
)

// JSONExporter writes the log as a pretty-printed JSON array.
type JSONExporter struct{}

func (e *JSONExporter) Export(rows []analyzer.LogRow, w io.Writer) error {
	if rows == nil {
		rows = []analyzer.LogRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rows)
}

func (e *JSONExporter) Extension() string {
	return "json"
}
