package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/internal/gymlog/sessions"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header lipgloss.Style
	title  lipgloss.Style
	user   lipgloss.Style
	weight lipgloss.Style
	dim    lipgloss.Style
}

// newStyles detects the color support of out, plain text when it is not a terminal.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")),
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		user: r.NewStyle().
			Foreground(lipgloss.Color("135")),
		weight: r.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true),
		dim: r.NewStyle().
			Foreground(lipgloss.Color("243")),
	}
}

var tableColumns = []string{"User", "Date", "Exercise", "Weights", "Reps", "Best", "Worst", "Total", "Comment"}

func printLogTable(out io.Writer, rows []analyzer.LogRow) error {
	st := newStyles(out)

	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, st.header.Render("no sessions logged"))
		return err
	}

	if _, err := fmt.Fprintln(out, st.header.Render(fmt.Sprintf("%d session(s)", len(rows)))); err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	titles := make([]string, 0, len(tableColumns))
	for _, c := range tableColumns {
		titles = append(titles, st.title.Render(c))
	}
	_, _ = fmt.Fprintln(w, strings.Join(titles, "\t"))

	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join([]string{
			st.user.Render(row.User),
			row.Date.Format(sessions.DateLayout),
			row.Exercise,
			joinFloats(row.SetWeights),
			joinInts(row.SetReps),
			fmt.Sprintf("%s x %d", formatWeight(row.BestSetWeight), row.BestSetReps),
			fmt.Sprintf("%s x %d", formatWeight(row.WorstSetWeight), row.WorstSetReps),
			st.weight.Render(formatWeight(row.TotalWeightLifted)),
			st.dim.Render(row.Comment),
		}, "\t"))
	}

	return w.Flush()
}

func formatWeight(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinFloats(values []float64) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, formatWeight(v))
	}
	return strings.Join(parts, " ")
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, " ")
}
