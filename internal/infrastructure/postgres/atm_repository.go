package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
)

var _ repository.ATMTransactionRepository = (*ATMTransactionRepo)(nil)

// ATMTransactionRepo persistencia del reporte de transacciones ATM.
type ATMTransactionRepo struct {
	q Querier
}

// NewATMTransactionRepository construye el adaptador. Pasar pool o tx.
func NewATMTransactionRepository(q Querier) *ATMTransactionRepo {
	return &ATMTransactionRepo{q: q}
}

// BulkInsert inserta las transacciones con COPY.
func (r *ATMTransactionRepo) BulkInsert(ctx context.Context, txs []*entity.ATMTransaction) (int64, error) {
	if len(txs) == 0 {
		return 0, nil
	}
	n, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"atm_transactions"},
		[]string{"merchant_id", "merchant_name", "transaction_date", "terminal_id", "reference", "transaction_type", "amount", "fee", "status", "created_at"},
		pgx.CopyFromSlice(len(txs), func(i int) ([]any, error) {
			t := txs[i]
			return []any{t.MerchantID, t.MerchantName, t.TransactionDate, t.TerminalID, t.Reference, t.TransactionType, t.Amount, t.Fee, t.Status, t.CreatedAt}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy atm transactions: %w", err)
	}
	return n, nil
}

// List lista transacciones, más recientes primero. merchantID vacío = todos los comercios.
func (r *ATMTransactionRepo) List(ctx context.Context, merchantID string, limit, offset int) ([]*entity.ATMTransaction, error) {
	query := `
		SELECT id, merchant_id, merchant_name, transaction_date, terminal_id, reference,
			transaction_type, amount, fee, status, created_at
		FROM atm_transactions
		WHERE ($1 = '' OR merchant_id = $1)
		ORDER BY transaction_date DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, merchantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list atm transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.ATMTransaction
	for rows.Next() {
		var t entity.ATMTransaction
		if err := rows.Scan(&t.ID, &t.MerchantID, &t.MerchantName, &t.TransactionDate, &t.TerminalID, &t.Reference,
			&t.TransactionType, &t.Amount, &t.Fee, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan atm transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
