package main

import (
	"context"
	"fmt"
	"io"

	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/internal/gymlog/backend"
	"github.com/2beens/gymlog/internal/gymlog/sessions"
	"github.com/2beens/gymlog/internal/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	env        string
	configPath string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gymlogctl",
		Short: "Operate the gym exercise log",
		Long: `gymlogctl talks to the configured session store directly.

It manages the registered users and reads the exercise log:
  gymlogctl users list
  gymlogctl users add drilon
  gymlogctl log --user drilon --exercise Squat --from 2024-01-01
  gymlogctl export --format yaml --out gymlog.yaml
  gymlogctl latest-weight --user drilon --exercise Squat`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logging.Setup(logging.LoggerSetupParams{
				LogToStdout: true,
				LogLevel:    level,
			})
			log.SetOutput(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file with secrets")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newUsersCmd(opts),
		newLogCmd(opts),
		newExportCmd(opts),
		newLatestWeightCmd(opts),
	)

	return rootCmd
}

// gymlog bundles what the commands work with, built from the config.
type gymlog struct {
	service  *sessions.Service
	analyzer *analyzer.Analyzer
	backend  *backend.Backend
}

func (g *gymlog) Close() error {
	return g.backend.Close()
}

func openGymlog(ctx context.Context, opts *rootOptions) (*gymlog, error) {
	if err := godotenv.Load(opts.envFile); err != nil {
		log.Debugf("no env file loaded [%s]: %s", opts.envFile, err)
	}

	cfg, err := config.Load(opts.env, opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		return nil, err
	}

	storeBackend, err := backend.Open(ctx, backend.OpenParams{
		Config:  cfg,
		Secrets: secrets,
	})
	if err != nil {
		return nil, err
	}

	catalog := sessions.DefaultCatalog()
	if len(cfg.Catalog) > 0 {
		catalog = sessions.NewCatalog(cfg.Catalog)
	}

	service := sessions.NewService(sessions.NewServiceParams{
		Store:   storeBackend.Store,
		Catalog: catalog,
	})

	return &gymlog{
		service:  service,
		analyzer: analyzer.NewAnalyzer(service),
		backend:  storeBackend,
	}, nil
}

// withGymlog opens the store for the duration of fn.
func withGymlog(cmd *cobra.Command, opts *rootOptions, fn func(g *gymlog, out io.Writer) error) error {
	g, err := openGymlog(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			log.Errorf("close store: %s", err)
		}
	}()

	return fn(g, cmd.OutOrStdout())
}
