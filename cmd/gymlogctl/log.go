package main

import (
	"fmt"
	"io"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/internal/gymlog/export"
	"github.com/2beens/gymlog/internal/gymlog/sessions"

	"github.com/spf13/cobra"
)

func newLogCmd(opts *rootOptions) *cobra.Command {
	var (
		users     []string
		exercises []string
		from      string
		to        string
	)

	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Print the exercise log",
		Long: `Print the exercise log, newest session first.

Filters combine: --user and --exercise can be repeated, --from and --to
bound the session date (YYYY-MM-DD, inclusive).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := analyzer.LogFilter{
				Users:     users,
				Exercises: exercises,
			}
			var err error
			if filter.From, err = parseDateFlag(from); err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			if filter.To, err = parseDateFlag(to); err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			return withGymlog(cmd, opts, func(g *gymlog, out io.Writer) error {
				rows, err := g.analyzer.Query(cmd.Context(), filter)
				if err != nil {
					return fmt.Errorf("query log: %w", err)
				}
				return printLogTable(out, rows)
			})
		},
	}

	logCmd.Flags().StringSliceVar(&users, "user", nil, "only sessions of these users")
	logCmd.Flags().StringSliceVar(&exercises, "exercise", nil, "only sessions of these exercises")
	logCmd.Flags().StringVar(&from, "from", "", "first session date, YYYY-MM-DD")
	logCmd.Flags().StringVar(&to, "to", "", "last session date, YYYY-MM-DD")

	return logCmd
}

func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := sessions.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format  string
		outPath string
	)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole exercise log",
		Long:  `Export the unfiltered exercise log as csv, json or yaml, to stdout or to --out.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, err := export.NewExporter(format)
			if err != nil {
				return err
			}

			return withGymlog(cmd, opts, func(g *gymlog, out io.Writer) error {
				rows, err := g.analyzer.ExerciseLog(cmd.Context())
				if err != nil {
					return fmt.Errorf("get exercise log: %w", err)
				}

				if outPath == "" {
					return exporter.Export(rows, out)
				}

				if err := export.ToFile(exporter, rows, outPath); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.ErrOrStderr(), "%d session(s) exported to %s\n", len(rows), outPath)
				return err
			})
		},
	}

	exportCmd.Flags().StringVarP(&format, "format", "f", export.FormatCSV, "export format [csv | json | yaml]")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, stdout when empty")

	return exportCmd
}

func newLatestWeightCmd(opts *rootOptions) *cobra.Command {
	var user, exercise string

	latestWeightCmd := &cobra.Command{
		Use:   "latest-weight",
		Short: "Print the latest worst-set weight of a user for an exercise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGymlog(cmd, opts, func(g *gymlog, out io.Writer) error {
				weight, err := g.analyzer.LatestWeight(cmd.Context(), user, exercise)
				if err != nil {
					return fmt.Errorf("latest weight: %w", err)
				}
				st := newStyles(out)
				_, err = fmt.Fprintf(out, "%s %s: %s\n", st.user.Render(user), exercise, st.weight.Render(formatWeight(weight)))
				return err
			})
		},
	}

	latestWeightCmd.Flags().StringVar(&user, "user", "", "user alias")
	latestWeightCmd.Flags().StringVar(&exercise, "exercise", "", "exercise name")
	_ = latestWeightCmd.MarkFlagRequired("user")
	_ = latestWeightCmd.MarkFlagRequired("exercise")

	return latestWeightCmd
}
