package repository

import (
	"context"

	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

// ATMTransactionRepository define el puerto de persistencia para el reporte ATM (DIP).
type ATMTransactionRepository interface {
	BulkInsert(ctx context.Context, txs []*entity.ATMTransaction) (int64, error)
	List(ctx context.Context, merchantID string, limit, offset int) ([]*entity.ATMTransaction, error)
}
