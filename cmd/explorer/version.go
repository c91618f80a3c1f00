package main

import (
	"fmt"

	explorer "github.com/ewallt/ai-subject-explorer"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of explorer",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "explorer version %s\n", explorer.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
