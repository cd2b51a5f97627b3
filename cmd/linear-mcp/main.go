// Package main implements the linear-mcp server and its inspection commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath overrides the default config file location.
	configPath string

	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linear-mcp",
	Short: "MCP server for Linear issues and teams",
	Long: `linear-mcp exposes a Linear workspace to MCP clients.

Resources:
  linear://issues/active   issues that are not completed or canceled
  linear://teams           teams in the workspace
  linear://issues/{id}     a single issue

Tools:
  create_issue, read_team_ids, update_issue

The Linear API key is read from LINEAR_API_KEY or the config file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/linear-mcp/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "linear-mcp %s (commit %s, built %s)\n", version, gitCommit, buildDate)
	},
}
