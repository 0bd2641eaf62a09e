package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/vouchers-api/internal/infrastructure/postgres"
	"github.com/jhoicas/vouchers-api/pkg/config"
	"github.com/jhoicas/vouchers-api/pkg/logger"
)

// env dependencias comunes de los subcomandos, resueltas en PersistentPreRunE.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:           "voucherctl",
		Short:         "Herramientas de operación de la API de vouchers",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Service: "voucherctl", Out: cmd.ErrOrStderr()})
			return nil
		},
	}
	cmd.AddCommand(newMigrateCmd(e), newImportCmd(e), newGenealogyCmd(e), newUserCmd(e))
	return cmd
}

func (e *env) connect(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, e.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
