package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/metrics"
	"github.com/jhoicas/vouchers-api/pkg/logger"
)

// SourceATM nombre de origen del reporte ATM en métricas y respuestas.
const SourceATM = "atm"

// ImportUseCase parsea cargas masivas y las entrega al insert masivo del repositorio.
type ImportUseCase struct {
	vouchers repository.VoucherRepository
	atm      repository.ATMTransactionRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(vouchers repository.VoucherRepository, atm repository.ATMTransactionRepository, log *logger.Logger) *ImportUseCase {
	return &ImportUseCase{vouchers: vouchers, atm: atm, log: log.Component("ingest"), now: time.Now}
}

// ImportVouchers valida las filas del tipo indicado e inserta las aceptadas.
// Si ninguna fila es válida devuelve domain.ErrNoValidRows sin tocar la DB.
func (uc *ImportUseCase) ImportVouchers(ctx context.Context, voucherType string, rows []Row) (*dto.ImportResponse, error) {
	res, err := ParseVouchers(voucherType, rows)
	if err != nil {
		return nil, err
	}
	uc.count(voucherType, len(res.Drafts), res.Rejected)
	if len(res.Drafts) == 0 {
		return nil, domain.ErrNoValidRows
	}
	now := uc.now()
	for _, v := range res.Drafts {
		v.CreatedAt = now
	}
	inserted, err := uc.vouchers.BulkInsert(ctx, res.Drafts)
	if err != nil {
		return nil, fmt.Errorf("ingest: insertar vouchers %s: %w", voucherType, err)
	}
	uc.log.Info().
		Str("type", voucherType).
		Int64("inserted", inserted).
		Int("rejected", res.Rejected).
		Msg("carga de vouchers completada")
	return &dto.ImportResponse{Source: voucherType, Inserted: inserted, Rejected: res.Rejected}, nil
}

// ImportATMReport procesa el reporte ATM (matriz de celdas, sin encabezado fijo).
func (uc *ImportUseCase) ImportATMReport(ctx context.Context, records [][]string) (*dto.ImportResponse, error) {
	res := ParseATMReport(records)
	uc.count(SourceATM, len(res.Transactions), res.Rejected)
	if len(res.Transactions) == 0 {
		return nil, domain.ErrNoValidRows
	}
	now := uc.now()
	for _, t := range res.Transactions {
		t.CreatedAt = now
	}
	inserted, err := uc.atm.BulkInsert(ctx, res.Transactions)
	if err != nil {
		return nil, fmt.Errorf("ingest: insertar transacciones ATM: %w", err)
	}
	uc.log.Info().
		Int64("inserted", inserted).
		Int("rejected", res.Rejected).
		Msg("carga de reporte ATM completada")
	return &dto.ImportResponse{Source: SourceATM, Inserted: inserted, Rejected: res.Rejected}, nil
}

// ImportRecords entrada común para archivos: encabezado + filas para vouchers,
// matriz completa para el reporte ATM.
func (uc *ImportUseCase) ImportRecords(ctx context.Context, source string, records [][]string) (*dto.ImportResponse, error) {
	if source == SourceATM {
		return uc.ImportATMReport(ctx, records)
	}
	if !entity.ValidVoucherType(source) {
		return nil, domain.ErrUnknownVoucherType
	}
	return uc.ImportVouchers(ctx, source, RowsFromRecords(records))
}

func (uc *ImportUseCase) count(source string, accepted, rejected int) {
	metrics.IngestRows.WithLabelValues(source, "accepted").Add(float64(accepted))
	metrics.IngestRows.WithLabelValues(source, "rejected").Add(float64(rejected))
}

// ListATM lista transacciones ATM, opcionalmente de un solo comercio.
func (uc *ImportUseCase) ListATM(ctx context.Context, merchantID string, page dto.PageRequest) (*dto.ATMTransactionListResponse, error) {
	page.DefaultPage()
	list, err := uc.atm.List(ctx, strings.TrimSpace(merchantID), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ATMTransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.ATMTransactionResponse{
			ID:              t.ID,
			MerchantID:      t.MerchantID,
			MerchantName:    t.MerchantName,
			TransactionDate: t.TransactionDate,
			TerminalID:      t.TerminalID,
			Reference:       t.Reference,
			TransactionType: t.TransactionType,
			Amount:          t.Amount,
			Fee:             t.Fee,
			Status:          t.Status,
		})
	}
	return &dto.ATMTransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
