package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/btorlabs/btoropt"
	"github.com/btorlabs/btoropt/formatter"
)

var (
	modular  bool
	deferred bool
)

var optCmd = &cobra.Command{
	Use:   "opt <file.btor2> [pass ...]",
	Short: "Parse a btor2 design and run an ordered pass pipeline over it",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: please provide a btor2 file")
			os.Exit(1)
		}
		path := args[0]
		passIDs := args[1:]

		if cfgFile != "" {
			config, err := btoropt.ParseConfigurationFile(cfgFile)
			if err != nil {
				logger.Fatal("failed to load pipeline configuration", zap.Error(err))
			}
			passIDs = append(config.Passes, passIDs...)
		}

		lines, err := btoropt.ReadLines(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		ctx := context.Background()
		var out string
		switch {
		case modular:
			out, err = btoropt.ProcessProgramLines(ctx, logger, lines, passIDs)
		case deferred:
			out, err = btoropt.ProcessLinesDeferred(ctx, logger, lines, passIDs)
		default:
			out, err = btoropt.ProcessLines(ctx, logger, lines, passIDs)
		}
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

func init() {
	optCmd.Flags().BoolVar(&modular, "modular", false, "parse module/contract block syntax")
	optCmd.Flags().BoolVar(&deferred, "deferred", false, "use deferred two-phase resolution (tolerates forward references)")
}
