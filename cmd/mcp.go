package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bytetobeacon/beacon/internal/articles"
	mcpserver "github.com/bytetobeacon/beacon/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing article search and retrieval tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		source, _ := cmd.Flags().GetString("source")
		if source == "" {
			source = cfg.Articles.Source
		}

		pending := articles.Start(cmd.Context(), articles.NewLoader(source))
		return mcpserver.NewServer(pending).Serve()
	},
}

func init() {
	mcpCmd.Flags().String("source", "", "article source (overrides config)")
	rootCmd.AddCommand(mcpCmd)
}
