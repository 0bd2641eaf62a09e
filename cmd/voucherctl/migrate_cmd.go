package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/vouchers-api/internal/infrastructure/postgres"
)

func newMigrateCmd(e *env) *cobra.Command {
	var statusOnly bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas (goose)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := e.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if !statusOnly {
				if err := postgres.Migrate(cmd.Context(), pool); err != nil {
					return err
				}
			}
			version, err := postgres.MigrationVersion(cmd.Context(), pool)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "versión del esquema: %d\n", version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "Solo muestra la versión actual")
	return cmd
}
