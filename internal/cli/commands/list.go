package commands

import (
	"github.com/spf13/cobra"

	"github.com/esnerda/kbc-branch-mcp/internal/cli/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all git-to-Keboola branch mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		result, err := a.lifecycle.ListMappings(cmd.Context())
		if err != nil {
			return err
		}

		if len(result.Mappings) == 0 {
			ui.Info("No branch mappings. Run 'kbc-branch-mcp link' on a feature branch to create one.")
			return nil
		}

		tbl := ui.NewTable("GIT BRANCH", "KEBOOLA BRANCH", "")
		for _, branch := range result.Mappings.Keys() {
			id := result.Mappings[branch]
			target := "production"
			if id != nil {
				target = *id
			}
			marker := ""
			if branch == result.CurrentGitBranch {
				marker = ui.DimStyle.Render("(current)")
			}
			tbl.AddRow(branch, target, marker)
		}
		tbl.Print()

		if result.CurrentGitBranch != "" {
			if _, ok := result.Mappings[result.CurrentGitBranch]; !ok {
				ui.Info("")
				ui.Warning("Current branch %q has no mapping", result.CurrentGitBranch)
			}
		}
		return nil
	},
}
