package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgopt/internal/config"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in optimization presets",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println()
		for _, p := range config.Presets() {
			fmt.Printf("  %-12s %s\n", p.Name, p.Description)
		}
		fmt.Println()
		fmt.Println("  Apply one with: imgopt optimize --preset <name> <inputs...>")
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
