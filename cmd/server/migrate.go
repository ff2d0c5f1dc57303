package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the warehouse tables that do not exist yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openWarehouse(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()
			a.log.Info("migration complete", "driver", a.db.Dialect().Name)
			return nil
		},
	}
}
