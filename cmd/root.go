package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	noColor bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:          "btoropt",
	Short:        "btoropt - parse, optimize and miter btor2 designs",
	SilenceUsage: true,
}

func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

func init() {
	logger, _ = zap.NewProduction()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "pipeline configuration file (yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(optCmd)
	rootCmd.AddCommand(miterCmd)
	rootCmd.AddCommand(passesCmd)
}
