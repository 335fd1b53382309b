package commands

import (
	"github.com/spf13/cobra"

	"github.com/esnerda/kbc-branch-mcp/internal/mcpserver"
	"github.com/esnerda/kbc-branch-mcp/internal/proxy"
)

var flagProxy bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server (stdio), or the branch-injecting proxy with --proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		if flagProxy || a.cfg.Proxy.Enabled {
			if err := a.cfg.ValidateRequired(); err != nil {
				return err
			}
			fwd, err := proxy.NewForwarder(a.cfg.MCPServerURL(), a.cfg.Storage.Token, a.resolver, a.log)
			if err != nil {
				return err
			}
			return fwd.Serve(cmd.Context(), a.cfg.Proxy.Listen)
		}

		srv := mcpserver.NewServer(a.cfg, a.lifecycle, a.resolver, a.runner, a.docs, a.log)
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&flagProxy, "proxy", false, "Forward MCP traffic to the remote Keboola MCP server with branch injection")
}
