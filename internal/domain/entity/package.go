package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Package es un paquete de suscripción que otorga créditos al comprarse.
type Package struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Credits     decimal.Decimal
	Active      bool
	CreatedAt   time.Time
}
