package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(d deps, load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  "Apply the embedded goose migrations to the configured mysql or postgres database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.Driver == "memory" {
				return fmt.Errorf("database.driver is memory; nothing to migrate")
			}
			return d.migrate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}
