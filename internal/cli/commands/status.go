package commands

import (
	"github.com/spf13/cobra"

	"github.com/esnerda/kbc-branch-mcp/internal/cli/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the Keboola branch mapping for the current git branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		info, err := a.lifecycle.GetMapping(cmd.Context(), "")
		if err != nil {
			return err
		}

		switch {
		case info.IsProduction:
			ui.Info("Git branch %s targets %s", ui.BoldStyle.Render(info.GitBranch), ui.BoldStyle.Render("production"))
		case info.Linked:
			ui.Info("Git branch %s is linked to Keboola branch %s", ui.BoldStyle.Render(info.GitBranch), ui.BoldStyle.Render(*info.RemoteBranchID))
		default:
			ui.Warning("Git branch %q is not linked; run 'kbc-branch-mcp link' before working against Keboola", info.GitBranch)
		}
		return nil
	},
}
