package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/vouchers-api/internal/application/ingest"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/postgres"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/tabular"
)

var importSources = []string{entity.VoucherTypeGSAT, entity.VoucherTypeWiFi, entity.VoucherTypeTV, ingest.SourceATM}

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "import <" + strings.Join(importSources, "|") + "> <archivo>",
		Short:     "Carga masiva desde un CSV o XLSX, igual que los endpoints de upload",
		Args:      cobra.ExactArgs(2),
		ValidArgs: importSources,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, path := strings.ToLower(args[0]), args[1]
			if source != ingest.SourceATM && !entity.ValidVoucherType(source) {
				return fmt.Errorf("origen desconocido %q (válidos: %s)", source, strings.Join(importSources, ", "))
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			records, err := tabular.Read(filepath.Base(path), f)
			if err != nil {
				return fmt.Errorf("leer %s: %w", path, err)
			}

			pool, err := e.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := ingest.NewImportUseCase(
				postgres.NewVoucherRepository(pool),
				postgres.NewATMTransactionRepository(pool),
				e.log,
			)
			out, err := uc.ImportRecords(cmd.Context(), source, records)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}
