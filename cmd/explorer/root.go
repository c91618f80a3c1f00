package main

import (
	"fmt"
	"os"

	"github.com/ewallt/ai-subject-explorer/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Explorer walks a subject through menus suggested by a topic service",
	Long: `Explorer starts a session on a topic, shows the menu of subtopics returned
by the topic service and lets you drill down one selection at a time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("service", "", "Topic service mode: 'mock' or 'http'")
	rootCmd.PersistentFlags().String("service-url", "", "Base URL of the topic service (http mode)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-request timeout (0 disables)")
	rootCmd.PersistentFlags().Duration("mock-delay", 0, "Simulated latency of the mock service")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Expose Prometheus metrics on this address")
}

// loadConfig reads the config file and environment, then applies any flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("service") {
		cfg.Service.Mode, _ = flags.GetString("service")
	}
	if flags.Changed("service-url") {
		cfg.Service.URL, _ = flags.GetString("service-url")
		if !flags.Changed("service") {
			cfg.Service.Mode = config.ModeHTTP
		}
	}
	if flags.Changed("timeout") {
		cfg.Service.RequestTimeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("mock-delay") {
		cfg.Mock.Delay, _ = flags.GetDuration("mock-delay")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr, _ = flags.GetString("metrics-addr")
	}

	// serve-only flags; absent on other commands
	if f := flags.Lookup("port"); f != nil && f.Changed && cmd.Name() == "serve" {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if f := flags.Lookup("store"); f != nil && f.Changed {
		cfg.Server.Store = f.Value.String()
	}
	if f := flags.Lookup("data-dir"); f != nil && f.Changed {
		cfg.Server.DataDir = f.Value.String()
	}
	if f := flags.Lookup("redis-addr"); f != nil && f.Changed {
		cfg.Server.Redis.Addr = f.Value.String()
	}
	if f := flags.Lookup("catalog"); f != nil && f.Changed {
		cfg.Server.Catalog = f.Value.String()
	}
	if f := flags.Lookup("watch"); f != nil && f.Changed {
		cfg.Server.Watch, _ = flags.GetBool("watch")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
