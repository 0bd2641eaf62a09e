package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportRowsRequest filas ya parseadas por el cliente (alternativa al archivo multipart).
type ImportRowsRequest struct {
	Rows []map[string]string `json:"rows" validate:"required,min=1"`
}

// ImportReportRequest reporte ATM como matriz de celdas.
type ImportReportRequest struct {
	Records [][]string `json:"records" validate:"required,min=1"`
}

// ImportResponse resultado de una carga masiva.
type ImportResponse struct {
	Source   string `json:"source"`
	Inserted int64  `json:"inserted"`
	Rejected int    `json:"rejected"`
}

// ATMTransactionResponse salida de una transacción ATM.
type ATMTransactionResponse struct {
	ID              int64           `json:"id"`
	MerchantID      string          `json:"merchant_id"`
	MerchantName    string          `json:"merchant_name"`
	TransactionDate time.Time       `json:"transaction_date"`
	TerminalID      string          `json:"terminal_id"`
	Reference       string          `json:"reference"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Fee             decimal.Decimal `json:"fee"`
	Status          string          `json:"status"`
}

// ATMTransactionListResponse lista paginada de transacciones ATM.
type ATMTransactionListResponse struct {
	Items []ATMTransactionResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
