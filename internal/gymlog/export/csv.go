package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/internal/gymlog/sessions"
)

// CSVExporter writes one header line with the log columns, then one line per row.
type CSVExporter struct{}

func (e *CSVExporter) Export(rows []analyzer.LogRow, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(analyzer.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		if err := cw.Write(csvRecord(row)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (e *CSVExporter) Extension() string {
	return "csv"
}

func csvRecord(row analyzer.LogRow) []string {
	return []string{
		row.User,
		row.Date.Format(sessions.DateLayout),
		row.Exercise,
		formatList(row.SetWeights, formatFloat),
		formatList(row.SetReps, strconv.Itoa),
		formatFloat(row.BestSetWeight),
		strconv.Itoa(row.BestSetReps),
		formatFloat(row.WorstSetWeight),
		strconv.Itoa(row.WorstSetReps),
		formatFloat(row.TotalWeightLifted),
		row.Comment,
		row.Created.Format(sessions.CreatedLayout),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatList renders [100, 110, 90]
func formatList[T any](values []T, format func(T) string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = format(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
