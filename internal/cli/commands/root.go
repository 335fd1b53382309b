// Package commands implements the kbc-branch-mcp command line interface.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/esnerda/kbc-branch-mcp/internal/cli/ui"
)

var flagConfigFile string

var rootCmd = &cobra.Command{
	Use:           "kbc-branch-mcp",
	Short:         "Branch-aware MCP server for the Keboola CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `kbc-branch-mcp binds local git branches to Keboola development branches
and injects the binding into every operation: KBC_BRANCH_ID for kbc
subprocesses, X-KBC-Branch-Id for proxied MCP requests.

Branches are resolved fresh on every operation, so switching git
branches takes effect immediately. A non-default branch without a link
is refused rather than silently sent to production.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "Path to configuration file (default: kbc-branch-mcp.yaml in the working directory)")
	registerLoggerFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		return err
	}
	return nil
}
