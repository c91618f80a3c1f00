package main

import (
	"strings"

	"github.com/ewallt/ai-subject-explorer/internal/cli"
	"github.com/spf13/cobra"
)

var exploreCmd = &cobra.Command{
	Use:   "explore [topic...]",
	Args:  cobra.ArbitraryArgs,
	Short: "Explore a subject interactively",
	Long: `Starts an interactive exploration. Type a topic to begin, then pick menu
items by number or label. 'reset' starts over, 'exit' quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		topic, _ := cmd.Flags().GetString("topic")
		if topic == "" && len(args) > 0 {
			topic = strings.Join(args, " ")
		}
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")

		return cli.RunExplore(cli.ExploreOptions{
			Config:   cfg,
			Topic:    topic,
			Headless: headless,
			JSON:     jsonMode,
			Debug:    debug,
			In:       cmd.InOrStdin(),
			Out:      cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)

	exploreCmd.Flags().StringP("topic", "t", "", "Start exploring this topic immediately")
	exploreCmd.Flags().Bool("headless", false, "Run in headless mode (no prompts, strict IO)")
	exploreCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")

	// explore is the default command
	rootCmd.Args = exploreCmd.Args
	rootCmd.RunE = exploreCmd.RunE
	rootCmd.Flags().AddFlagSet(exploreCmd.Flags())
}
