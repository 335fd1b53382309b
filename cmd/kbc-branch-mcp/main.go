package main

import (
	"os"

	"github.com/esnerda/kbc-branch-mcp/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
