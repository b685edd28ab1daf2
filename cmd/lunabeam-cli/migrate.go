package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(confPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the claim tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(*confPath, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.repos.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema migrated (%s)\n", rt.conf.Database.Driver)
			return nil
		},
	}
}
