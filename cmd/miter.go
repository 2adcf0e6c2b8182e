package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/btorlabs/btoropt"
	"github.com/btorlabs/btoropt/formatter"
)

var miterCmd = &cobra.Command{
	Use:   "miter <a.btor2> <b.btor2>",
	Short: "Merge two equivalent designs into a miter circuit for LEC",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println("error: please provide exactly two btor2 files")
			os.Exit(1)
		}

		lines1, err := btoropt.ReadLines(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		lines2, err := btoropt.ReadLines(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		out, err := btoropt.Miter(lines1, lines2)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if noColor {
			fmt.Println(out)
		} else {
			fmt.Println(formatter.Listing(out))
		}
	},
}
