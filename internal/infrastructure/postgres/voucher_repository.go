package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
)

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

const voucherColumns = `id, type, product_code, serial, reference, pin, amount, discount, duration,
	owner_id, used_date, expiry_date, status, created_at`

// VoucherRepo implementación de VoucherRepository sobre PostgreSQL (usable con pool o tx).
type VoucherRepo struct {
	q Querier
}

// NewVoucherRepository construye el adaptador de vouchers. Pasar pool o tx (Querier).
func NewVoucherRepository(q Querier) *VoucherRepo {
	return &VoucherRepo{q: q}
}

// GetByID obtiene un voucher por ID. nil, nil si no existe.
func (r *VoucherRepo) GetByID(ctx context.Context, id int64) (*entity.Voucher, error) {
	v, err := scanVoucher(r.q.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return v, nil
}

// List lista vouchers aplicando solo los filtros no vacíos.
func (r *VoucherRepo) List(ctx context.Context, f repository.VoucherFilter) ([]*entity.Voucher, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.ProductCode != "" {
		add("product_code = $%d", f.ProductCode)
	}
	if f.OwnerID != nil {
		add("owner_id = $%d", *f.OwnerID)
	}
	if f.AvailableOnly {
		conds = append(conds, "owner_id IS NULL", "status = 'available'")
	}

	query := `SELECT ` + voucherColumns + ` FROM vouchers`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	return collectVouchers(rows)
}

// Summary cuenta los vouchers vendibles (sin dueño, available y no vencidos) por tipo y producto.
func (r *VoucherRepo) Summary(ctx context.Context) ([]repository.StockSummary, error) {
	query := `
		SELECT type, product_code, COUNT(*), COALESCE(SUM(amount), 0)
		FROM vouchers
		WHERE owner_id IS NULL AND status = 'available'
		  AND (expiry_date IS NULL OR expiry_date > now())
		GROUP BY type, product_code
		ORDER BY type, product_code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("voucher summary: %w", err)
	}
	defer rows.Close()
	var list []repository.StockSummary
	for rows.Next() {
		var s repository.StockSummary
		if err := rows.Scan(&s.Type, &s.ProductCode, &s.Available, &s.FaceValue); err != nil {
			return nil, fmt.Errorf("scan voucher summary: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// BulkInsert inserta los vouchers con COPY.
func (r *VoucherRepo) BulkInsert(ctx context.Context, vouchers []*entity.Voucher) (int64, error) {
	if len(vouchers) == 0 {
		return 0, nil
	}
	n, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"vouchers"},
		[]string{"type", "product_code", "serial", "reference", "pin", "amount", "discount", "duration", "expiry_date", "status", "created_at"},
		pgx.CopyFromSlice(len(vouchers), func(i int) ([]any, error) {
			v := vouchers[i]
			return []any{v.Type, v.ProductCode, v.Serial, v.Reference, v.PIN, v.Amount, v.Discount, v.Duration, v.ExpiryDate, v.Status, v.CreatedAt}, nil
		}),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: serial ya cargado: %v", domain.ErrDuplicate, err)
		}
		return 0, fmt.Errorf("copy vouchers: %w", err)
	}
	return n, nil
}

// ClaimAvailable toma hasta Quantity vouchers vendibles del producto y los asigna en una sola
// sentencia. SKIP LOCKED evita que dos compras concurrentes esperen o tomen las mismas filas.
func (r *VoucherRepo) ClaimAvailable(ctx context.Context, req repository.ClaimRequest) ([]*entity.Voucher, error) {
	query := `
		WITH picked AS (
			SELECT id FROM vouchers
			WHERE type = $1 AND product_code = $2 AND owner_id IS NULL AND status = 'available'
			  AND (expiry_date IS NULL OR expiry_date > $5)
			ORDER BY id
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		UPDATE vouchers v
		SET owner_id = $4, used_date = $5, status = 'sold'
		FROM picked
		WHERE v.id = picked.id
		RETURNING v.id, v.type, v.product_code, v.serial, v.reference, v.pin, v.amount, v.discount, v.duration,
			v.owner_id, v.used_date, v.expiry_date, v.status, v.created_at`
	rows, err := r.q.Query(ctx, query, req.Type, req.ProductCode, req.Quantity, req.OwnerID, req.At)
	if err != nil {
		return nil, fmt.Errorf("claim vouchers: %w", err)
	}
	list, err := collectVouchers(rows)
	if err != nil {
		return nil, fmt.Errorf("claim vouchers: %w", err)
	}
	return list, nil
}

func collectVouchers(rows pgx.Rows) ([]*entity.Voucher, error) {
	defer rows.Close()
	var list []*entity.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func scanVoucher(row pgx.Row) (*entity.Voucher, error) {
	var v entity.Voucher
	err := row.Scan(
		&v.ID, &v.Type, &v.ProductCode, &v.Serial, &v.Reference, &v.PIN, &v.Amount, &v.Discount, &v.Duration,
		&v.OwnerID, &v.UsedDate, &v.ExpiryDate, &v.Status, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
