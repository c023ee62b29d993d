package commands

import (
	"perso/internal/mcp"

	"github.com/spf13/cobra"
)

func newServeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP on stdin/stdout (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.serve(cmd)
		},
	}
}

func (a *App) serve(cmd *cobra.Command) error {
	server, err := mcp.NewServer(a.Config, a.Logger, a.Deps())
	if err != nil {
		a.Logger.Error("Failed to create MCP server", "error", err)
		return err
	}

	if err := server.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		a.Logger.Error("MCP server stopped", "error", err)
		return err
	}
	return nil
}
