package commands

import (
	"github.com/spf13/cobra"

	"github.com/esnerda/kbc-branch-mcp/internal/cli/ui"
)

var unlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Remove the mapping for the current git branch (keeps the Keboola branch)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		result, err := a.lifecycle.Unlink(cmd.Context(), "")
		if err != nil {
			return err
		}

		if result.RemoteBranchID != nil {
			ui.Success("Unlinked git branch %q; Keboola branch %s still exists", result.GitBranch, *result.RemoteBranchID)
		} else {
			ui.Success("Unlinked git branch %q", result.GitBranch)
		}
		return nil
	},
}
