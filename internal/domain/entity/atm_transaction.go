package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ATMTransaction es una línea del reporte de transacciones ATM, asociada al comercio
// cuyo encabezado la precede en el reporte.
type ATMTransaction struct {
	ID              int64
	MerchantID      string
	MerchantName    string
	TransactionDate time.Time
	TerminalID      string
	Reference       string
	TransactionType string
	Amount          decimal.Decimal
	Fee             decimal.Decimal
	Status          string
	CreatedAt       time.Time
}
