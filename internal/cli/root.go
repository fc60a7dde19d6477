package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/siren-alert/internal/bootstrap"
	"github.com/bryanwahyu/siren-alert/internal/config"
	"github.com/bryanwahyu/siren-alert/internal/infra/db/migrate"
	"github.com/bryanwahyu/siren-alert/internal/infra/mcpserver"
)

var version = "dev"

// deps dependency yang bisa diganti di test
type deps struct {
	analyzer func(ctx context.Context, cfg *config.Config) (mcpserver.Analyzer, error)
	migrate  func(ctx context.Context, cfg *config.Config, out io.Writer) error
}

func defaultDeps() deps {
	return deps{
		analyzer: func(ctx context.Context, cfg *config.Config) (mcpserver.Analyzer, error) {
			return bootstrap.AIService(ctx, cfg)
		},
		migrate: runMigrations,
	}
}

func newRootCmd(d deps) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "sirenctl",
		Short:         "Safety Siren AI alert console tools",
		Long:          "sirenctl runs the incident analysis pipeline (OCR + AI report) from the terminal, serves it over MCP, and migrates the console database.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default: $CONFIG_PATH or ./config.yaml)")

	load := func() (*config.Config, error) {
		// .env opsional, isinya API key
		_ = godotenv.Load()
		path := configPath
		if path == "" {
			path = config.PathFromEnv()
		}
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	cmd.AddCommand(newAnalyzeCmd(d, load))
	cmd.AddCommand(newMCPCmd(d, load))
	cmd.AddCommand(newMigrateCmd(d, load))
	return cmd
}

type configLoader func() (*config.Config, error)

// NewRootCmdForTest returns the root command with a stubbed analyzer.
func NewRootCmdForTest(a mcpserver.Analyzer) *cobra.Command {
	d := defaultDeps()
	d.analyzer = func(context.Context, *config.Config) (mcpserver.Analyzer, error) { return a, nil }
	return newRootCmd(d)
}

func Execute() error {
	return newRootCmd(defaultDeps()).Execute()
}

func runMigrations(ctx context.Context, cfg *config.Config, out io.Writer) error {
	db, err := bootstrap.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	n, err := migrate.Up(ctx, db, cfg.Database.Driver)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderMigrated(cfg.Database.Driver, n))
	return nil
}
