package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de voucher manejados en la tabla vouchers.
const (
	VoucherTypeGSAT = "gsat"
	VoucherTypeWiFi = "wifi"
	VoucherTypeTV   = "tv"
)

// Estados de un voucher.
const (
	VoucherStatusAvailable = "available"
	VoucherStatusSold      = "sold"
)

// Voucher es un código canjeable (GSAT, WiFi o TV).
// Se crea en carga masiva y se modifica una sola vez al asignarse a un usuario.
type Voucher struct {
	ID          int64
	Type        string
	ProductCode string
	Serial      string
	Reference   string // número de referencia o de tarjeta
	PIN         string // pin o código de recarga
	Amount      decimal.Decimal
	Discount    decimal.Decimal
	Duration    string // solo WiFi, ej. "24h"
	OwnerID     *int64
	UsedDate    *time.Time
	ExpiryDate  *time.Time
	Status      string
	CreatedAt   time.Time
}

// IsOwned indica si el voucher ya fue reclamado.
func (v *Voucher) IsOwned() bool {
	return v.OwnerID != nil
}

// Claimable indica si el voucher puede venderse en at: sin dueño, en estado available y
// sin vencer. Un voucher cargado como used, sold o expired nunca es stock.
func (v *Voucher) Claimable(at time.Time) bool {
	return !v.IsOwned() && v.Status == VoucherStatusAvailable && (v.ExpiryDate == nil || v.ExpiryDate.After(at))
}

// ValidVoucherType indica si t es un tipo de voucher conocido.
func ValidVoucherType(t string) bool {
	switch t {
	case VoucherTypeGSAT, VoucherTypeWiFi, VoucherTypeTV:
		return true
	}
	return false
}
