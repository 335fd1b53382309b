package commands

import (
	"github.com/spf13/cobra"

	"github.com/esnerda/kbc-branch-mcp/internal/cli/ui"
	"github.com/esnerda/kbc-branch-mcp/internal/lifecycle"
)

var (
	flagLinkName        string
	flagLinkDescription string
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link the current git branch to a Keboola development branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		result, err := a.lifecycle.Link(cmd.Context(), lifecycle.LinkOptions{
			RemoteName:  flagLinkName,
			Description: flagLinkDescription,
		})
		if err != nil {
			return err
		}

		if result.Created {
			ui.Success("Created Keboola branch %q (ID %s) and linked it to git branch %q",
				result.RemoteBranchName, result.RemoteBranchID, result.GitBranch)
		} else {
			ui.Success("Linked git branch %q to existing Keboola branch %q (ID %s)",
				result.GitBranch, result.RemoteBranchName, result.RemoteBranchID)
		}
		if result.Previous != nil {
			ui.Warning("Previous mapping to branch %s was overwritten", *result.Previous)
		}
		return nil
	},
}

func init() {
	linkCmd.Flags().StringVar(&flagLinkName, "name", "", "Keboola branch name (defaults to the git branch name)")
	linkCmd.Flags().StringVar(&flagLinkDescription, "description", "", "Description for a newly created Keboola branch")
}
