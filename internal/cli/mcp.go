package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/siren-alert/internal/infra/mcpserver"
)

func newMCPCmd(d deps, load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the Safety Siren MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(d, load))
	return cmd
}

func newMCPServeCmd(d deps, load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio)",
		Long:  "Start the MCP server using stdio transport. Exposes siren_analyze_text and siren_analyze_image to AI assistants.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			svc, err := d.analyzer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return server.ServeStdio(mcpserver.New(svc, version))
		},
	}
}
