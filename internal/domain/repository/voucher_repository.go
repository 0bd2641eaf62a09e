package repository

import (
	"context"
	"time"

	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// VoucherFilter filtros para listados de vouchers. Los campos vacíos no filtran.
type VoucherFilter struct {
	Type          string
	Status        string
	ProductCode   string
	OwnerID       *int64
	AvailableOnly bool
	Limit         int
	Offset        int
}

// StockSummary cantidad de vouchers disponibles por tipo y código de producto.
type StockSummary struct {
	Type        string
	ProductCode string
	Available   int
	FaceValue   decimal.Decimal
}

// ClaimRequest parámetros de un reclamo atómico de vouchers sin dueño.
type ClaimRequest struct {
	Type        string
	ProductCode string
	OwnerID     int64
	Quantity    int
	At          time.Time
}

// VoucherRepository define el puerto de persistencia para Voucher (DIP).
type VoucherRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Voucher, error)
	List(ctx context.Context, f VoucherFilter) ([]*entity.Voucher, error)
	Summary(ctx context.Context) ([]StockSummary, error)
	// BulkInsert inserta todos los vouchers y devuelve la cantidad insertada.
	BulkInsert(ctx context.Context, vouchers []*entity.Voucher) (int64, error)
	// ClaimAvailable marca como vendidos hasta Quantity vouchers vendibles (ver
	// entity.Voucher.Claimable) en una sola
	// sentencia condicional y devuelve los reclamados. Puede devolver menos de Quantity;
	// el llamador decide si revierte la transacción.
	ClaimAvailable(ctx context.Context, req ClaimRequest) ([]*entity.Voucher, error)
}
