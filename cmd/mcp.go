package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/studyflow/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server hosts its own focus timer and exposes it, your profile, today's
plan and your focus history as tools over stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return fmt.Errorf(`the MCP server is disabled, enable it with "studyflow config set mcp.enabled true"`)
		}

		// stdout carries the protocol.
		fmt.Fprintln(cmd.ErrOrStderr(), "🚀 MCP server listening on stdio (Ctrl+C to stop)")

		ctx, cancel := setupSignalHandler(cmd.Context())
		defer cancel()

		focus := newFocusService("mcp", app.config.Timer.AutoFocus, "")
		defer focus.Close()
		app.state.SetFocusService(focus)

		server := mcp.NewServer(app.state, focus, app.logger)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
