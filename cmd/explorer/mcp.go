package main

import (
	"github.com/ewallt/ai-subject-explorer/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes an exploration session as MCP tools so AI agents can drive it.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		sse, _ := cmd.Flags().GetBool("sse")
		port, _ := cmd.Flags().GetInt("port")

		return cli.RunMCP(cli.MCPOptions{Config: cfg, Debug: debug, SSE: sse, Port: port})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().Bool("sse", false, "Serve over SSE instead of stdio")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
