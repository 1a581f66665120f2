package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the filters as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		server, err := newServer(ctx)
		if err != nil {
			return err
		}
		defer server.Close()

		slog.Info("starting filterkit MCP server on stdio")
		if err := server.Run(ctx); err != nil {
			return err
		}
		slog.Info("server stopped")
		return nil
	},
}
