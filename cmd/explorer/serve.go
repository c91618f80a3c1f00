package main

import (
	"github.com/ewallt/ai-subject-explorer/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the topic service HTTP server",
	Long: `Serves the topic service as a JSON API over HTTP, with session storage in
memory, on disk or in Redis. Clients connect with --service-url.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		return cli.Serve(cli.ServeOptions{Config: cfg, Debug: debug, Out: cmd.OutOrStdout()})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("store", "", "Session store: 'memory', 'file' or 'redis'")
	serveCmd.Flags().String("data-dir", "", "Directory for the file store")
	serveCmd.Flags().String("redis-addr", "", "Redis address for the redis store")
	serveCmd.Flags().String("catalog", "", "YAML catalog of topic menus")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the catalog when the file changes")
}
