package main

import (
	"os"

	"github.com/lunabeam/lunabeam/pkg/version"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var confPath string

	rootCmd := &cobra.Command{
		Use:           "lunabeam-cli",
		Short:         "lunabeam cli manages account claims from the command line",
		Long:          "lunabeam cli manages account claims from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&confPath, "conf", "c", "conf.d/config.toml", "conf file path")

	rootCmd.AddCommand(version.VersionCmd)
	rootCmd.AddCommand(newMigrateCmd(&confPath))
	rootCmd.AddCommand(newClaimCmd(&confPath))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
