package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssignVoucherRequest cuerpo de PUT /api/buy-gsat-voucher (nombres heredados del dashboard).
type AssignVoucherRequest struct {
	UserID      int64  `json:"user_id" validate:"required,gt=0"`
	ProductCode string `json:"product_code" validate:"required,max=64"`
	Email       string `json:"email" validate:"required,email"`
	Stocks      int    `json:"stocks" validate:"required,min=1"`
}

// VoucherResponse salida de un voucher.
type VoucherResponse struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	ProductCode string          `json:"product_code"`
	Serial      string          `json:"serial"`
	Reference   string          `json:"reference"`
	PIN         string          `json:"pin,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Discount    decimal.Decimal `json:"discount"`
	Duration    string          `json:"duration,omitempty"`
	OwnerID     *int64          `json:"owner_id"`
	UsedDate    *time.Time      `json:"used_date"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// VoucherListResponse lista paginada de vouchers.
type VoucherListResponse struct {
	Items []VoucherResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// AssignedVoucher voucher reclamado junto con el resultado de su notificación.
type AssignedVoucher struct {
	VoucherResponse
	Notification string `json:"notification"` // sent | queued | failed
}

// AssignVoucherResponse resultado estructurado de una compra.
type AssignVoucherResponse struct {
	UserID      int64             `json:"user_id"`
	ProductCode string            `json:"product_code"`
	Claimed     int               `json:"claimed"`
	Vouchers    []AssignedVoucher `json:"vouchers"`
}

// StockSummaryResponse disponibilidad por tipo y producto.
type StockSummaryResponse struct {
	Type        string          `json:"type"`
	ProductCode string          `json:"product_code"`
	Available   int             `json:"available"`
	FaceValue   decimal.Decimal `json:"face_value"`
}

// VoucherListQuery filtros de GET /api/{type}-vouchers.
type VoucherListQuery struct {
	PageRequest
	Status      string `query:"status"`
	ProductCode string `query:"product_code"`
	OwnerID     int64  `query:"owner_id"`
	Available   bool   `query:"available"`
}
