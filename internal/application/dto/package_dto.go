package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePackageRequest entrada para crear un paquete de suscripción.
type CreatePackageRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=120"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price"`
	Credits     decimal.Decimal `json:"credits"`
}

// PackageResponse salida de un paquete.
type PackageResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Credits     decimal.Decimal `json:"credits"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}
