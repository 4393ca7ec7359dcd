package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the timedorder CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("timedorder version %s\n", version)
		fmt.Println("Scheduled order placement with retries and market gates")
		fmt.Println("https://github.com/rustyeddy/timedorder")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
