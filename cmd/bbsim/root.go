package main

import (
	"github.com/danmuck/bbctl/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "bbsim",
		Short:         "Baseband scheduler simulator",
		Long:          "Drive the baseband operation scheduler with simulated protocol layers, radio and timebase.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.ConfigureRuntime()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to bbsim TOML config")
	rootCmd.AddCommand(runCmd, validateCmd, templateCmd)
}
