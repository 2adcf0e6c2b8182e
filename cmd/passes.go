package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/btorlabs/btoropt"
)

var passesCmd = &cobra.Command{
	Use:   "passes",
	Short: "List the available pass ids",
	Run: func(cmd *cobra.Command, args []string) {
		for _, id := range btoropt.Registry().IDs() {
			fmt.Println(id)
		}
	},
}
