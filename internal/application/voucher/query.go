package voucher

import (
	"context"
	"fmt"

	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
)

// QueryUseCase consultas de stock y comprobantes.
type QueryUseCase struct {
	vouchers repository.VoucherRepository
	users    repository.UserRepository
	receipts ReceiptRenderer
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(vouchers repository.VoucherRepository, users repository.UserRepository, receipts ReceiptRenderer) *QueryUseCase {
	return &QueryUseCase{vouchers: vouchers, users: users, receipts: receipts}
}

// List lista vouchers de un tipo con filtros y paginación.
func (uc *QueryUseCase) List(ctx context.Context, voucherType string, q dto.VoucherListQuery) (*dto.VoucherListResponse, error) {
	if !entity.ValidVoucherType(voucherType) {
		return nil, domain.ErrUnknownVoucherType
	}
	q.DefaultPage()
	f := repository.VoucherFilter{
		Type:          voucherType,
		Status:        q.Status,
		ProductCode:   q.ProductCode,
		AvailableOnly: q.Available,
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
	if q.OwnerID > 0 {
		f.OwnerID = &q.OwnerID
	}
	list, err := uc.vouchers.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VoucherResponse, 0, len(list))
	for _, v := range list {
		items = append(items, ToVoucherResponse(v))
	}
	return &dto.VoucherListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Get obtiene un voucher por ID.
func (uc *QueryUseCase) Get(ctx context.Context, id int64) (*dto.VoucherResponse, error) {
	v, err := uc.vouchers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	out := ToVoucherResponse(v)
	return &out, nil
}

// Summary stock disponible por tipo y producto.
func (uc *QueryUseCase) Summary(ctx context.Context) ([]dto.StockSummaryResponse, error) {
	list, err := uc.vouchers.Summary(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockSummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StockSummaryResponse{
			Type:        s.Type,
			ProductCode: s.ProductCode,
			Available:   s.Available,
			FaceValue:   s.FaceValue,
		})
	}
	return out, nil
}

// Receipt genera el PDF de un voucher asignado. Solo el dueño o un master pueden descargarlo.
func (uc *QueryUseCase) Receipt(ctx context.Context, id, requesterID int64, requesterRole string) ([]byte, string, error) {
	v, err := uc.vouchers.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if v == nil {
		return nil, "", domain.ErrNotFound
	}
	if !v.IsOwned() {
		return nil, "", fmt.Errorf("%w: el voucher no ha sido vendido", domain.ErrConflict)
	}
	if *v.OwnerID != requesterID && requesterRole != entity.RoleMaster {
		return nil, "", domain.ErrForbidden
	}
	owner, err := uc.users.GetByID(ctx, *v.OwnerID)
	if err != nil {
		return nil, "", err
	}
	if owner == nil {
		owner = &entity.User{ID: *v.OwnerID}
	}
	pdf, err := uc.receipts.RenderReceipt(ctx, v, owner)
	if err != nil {
		return nil, "", err
	}
	return pdf, ReceiptFilename(v), nil
}

// ReceiptFilename nombre de archivo del comprobante.
func ReceiptFilename(v *entity.Voucher) string {
	return fmt.Sprintf("voucher-%s-%d.pdf", v.Type, v.ID)
}

// ToVoucherResponse convierte la entidad al DTO de salida.
func ToVoucherResponse(v *entity.Voucher) dto.VoucherResponse {
	return dto.VoucherResponse{
		ID:          v.ID,
		Type:        v.Type,
		ProductCode: v.ProductCode,
		Serial:      v.Serial,
		Reference:   v.Reference,
		PIN:         v.PIN,
		Amount:      v.Amount,
		Discount:    v.Discount,
		Duration:    v.Duration,
		OwnerID:     v.OwnerID,
		UsedDate:    v.UsedDate,
		ExpiryDate:  v.ExpiryDate,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
	}
}

// ToAssignResponse convierte el resultado de una compra al DTO de salida.
func ToAssignResponse(r *AssignResult) dto.AssignVoucherResponse {
	out := dto.AssignVoucherResponse{
		UserID:      r.UserID,
		ProductCode: r.ProductCode,
		Claimed:     len(r.Vouchers),
		Vouchers:    make([]dto.AssignedVoucher, 0, len(r.Vouchers)),
	}
	for _, av := range r.Vouchers {
		out.Vouchers = append(out.Vouchers, dto.AssignedVoucher{
			VoucherResponse: ToVoucherResponse(av.Voucher),
			Notification:    av.Notification,
		})
	}
	return out
}
