package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/feast-registry/config"
	"github.com/GoSim-25-26J-441/feast-registry/internal/logging"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	verbosity int
	logPath   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "registry",
		Short:         "Feature registry REST server",
		Long:          "Serves Feast registry resources (entities, feature views, data sources, ...) over HTTP from a SQL database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "increase log verbosity (-v warn, -vv info, -vvv debug)")
	cmd.PersistentFlags().StringVarP(&opts.logPath, "log-path", "l", "", "log destination: stdout, stderr or a file path (default $LOG_PATH)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newTeardownCommand(opts))

	return cmd
}

// loadConfig parses the environment, layers flags and the optional engine
// URL on top, then validates.
func loadConfig(cmd *cobra.Command, opts *rootOptions, engineURL string) (*config.Config, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("verbose") {
		cfg.App.LogLevel = logging.LevelFromVerbosity(opts.verbosity)
	}
	if opts.logPath != "" {
		cfg.App.LogPath = opts.logPath
	}
	if engineURL != "" {
		applyEngineURL(&cfg.Database, engineURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEngineURL accepts the database URL forms clients already use:
// sqlite:///path/registry.db, postgresql://..., postgres://..., or a bare
// sqlite file path.
func applyEngineURL(db *config.DatabaseConfig, url string) {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		db.Driver = config.DriverSQLite
		db.DSN = strings.TrimPrefix(strings.TrimPrefix(url, "sqlite://"), "/")
		if db.DSN == "" {
			db.DSN = ":memory:"
		}
	case strings.HasPrefix(url, "postgresql+") && strings.Contains(url, "://"):
		// driver hints such as postgresql+psycopg2:// are dropped
		_, rest, _ := strings.Cut(url, "://")
		db.DSN = "postgres://" + rest
		if db.Driver == config.DriverSQLite {
			db.Driver = config.DriverPgx
		}
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		db.DSN = url
		if db.Driver == config.DriverSQLite {
			db.Driver = config.DriverPgx
		}
	default:
		db.Driver = config.DriverSQLite
		db.DSN = url
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.App.LogLevel, cfg.App.LogPath, cfg.App.Environment)
}
