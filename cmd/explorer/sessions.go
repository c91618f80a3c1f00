package main

import (
	"errors"

	"github.com/ewallt/ai-subject-explorer/internal/cli"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"session"},
	Short:   "Manage server-side exploration sessions",
	Long: `List, inspect and remove sessions held by a topic service. With --url the
commands talk to a running server; otherwise they open the configured store.`,
}

var sessionsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := sessionsOptions(cmd)
		if err != nil {
			return err
		}
		return cli.ListSessions(cmd.Context(), opts)
	},
}

var sessionsInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the exploration path of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := sessionsOptions(cmd)
		if err != nil {
			return err
		}
		return cli.InspectSession(cmd.Context(), opts, args[0])
	},
}

var sessionsRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := sessionsOptions(cmd)
		if err != nil {
			return err
		}
		var errs []error
		for _, id := range args {
			if err := cli.RemoveSession(cmd.Context(), opts, id); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsLsCmd)
	sessionsCmd.AddCommand(sessionsInspectCmd)
	sessionsCmd.AddCommand(sessionsRmCmd)

	sessionsCmd.PersistentFlags().String("url", "", "Base URL of a running topic service")
	sessionsCmd.PersistentFlags().String("store", "", "Session store: 'memory', 'file' or 'redis'")
	sessionsCmd.PersistentFlags().String("data-dir", "", "Directory for the file store")
	sessionsCmd.PersistentFlags().String("redis-addr", "", "Redis address for the redis store")
}

func sessionsOptions(cmd *cobra.Command) (cli.SessionsOptions, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.SessionsOptions{}, err
	}
	url, _ := cmd.Flags().GetString("url")
	return cli.SessionsOptions{Config: cfg, URL: url, Out: cmd.OutOrStdout()}, nil
}
