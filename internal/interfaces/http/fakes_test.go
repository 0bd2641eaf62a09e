package http_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
)

// memUsers repositorio de usuarios en memoria.
type memUsers struct {
	mu   sync.Mutex
	list []*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.list {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
		if x.Login == u.Login {
			return domain.ErrLoginAlreadyExists
		}
	}
	u.ID = int64(len(m.list) + 1)
	cp := *u
	m.list = append(m.list, &cp)
	return nil
}

func (m *memUsers) find(pred func(*entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.list {
		if pred(u) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.ID == id })
}

func (m *memUsers) GetByEmail(_ context.Context, e string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, e) })
}

func (m *memUsers) GetByLogin(_ context.Context, l string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Login == l })
}

func (m *memUsers) GetByReferralCode(_ context.Context, c string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.ReferralCode == c })
}

func (m *memUsers) ListAll(context.Context) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.User(nil), m.list...), nil
}

// memVouchers repositorio de vouchers en memoria; también hace de TxRunner.
type memVouchers struct {
	mu   sync.Mutex
	list []*entity.Voucher
}

func (m *memVouchers) RunVouchers(ctx context.Context, fn func(repository.VoucherRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]entity.Voucher, len(m.list))
	for i, v := range m.list {
		snapshot[i] = *v
	}
	if err := fn(m); err != nil {
		for i := range m.list {
			*m.list[i] = snapshot[i]
		}
		return err
	}
	return nil
}

func (m *memVouchers) GetByID(_ context.Context, id int64) (*entity.Voucher, error) {
	for _, v := range m.list {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (m *memVouchers) List(_ context.Context, f repository.VoucherFilter) ([]*entity.Voucher, error) {
	var out []*entity.Voucher
	for _, v := range m.list {
		if v.Type == f.Type && (!f.AvailableOnly || v.Claimable(time.Now())) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memVouchers) Summary(context.Context) ([]repository.StockSummary, error) {
	return nil, nil
}

func (m *memVouchers) BulkInsert(_ context.Context, vs []*entity.Voucher) (int64, error) {
	for _, v := range vs {
		v.ID = int64(len(m.list) + 1)
		m.list = append(m.list, v)
	}
	return int64(len(vs)), nil
}

// ClaimAvailable se llama con mu tomado por RunVouchers.
func (m *memVouchers) ClaimAvailable(_ context.Context, req repository.ClaimRequest) ([]*entity.Voucher, error) {
	var out []*entity.Voucher
	for _, v := range m.list {
		if len(out) == req.Quantity {
			break
		}
		if v.Type == req.Type && v.ProductCode == req.ProductCode && v.Claimable(req.At) {
			owner := req.OwnerID
			v.OwnerID = &owner
			v.Status = entity.VoucherStatusSold
			out = append(out, v)
		}
	}
	return out, nil
}

type memATM struct {
	list []*entity.ATMTransaction
}

func (m *memATM) BulkInsert(_ context.Context, txs []*entity.ATMTransaction) (int64, error) {
	m.list = append(m.list, txs...)
	return int64(len(txs)), nil
}

func (m *memATM) List(context.Context, string, int, int) ([]*entity.ATMTransaction, error) {
	return m.list, nil
}

type memPackages struct {
	list []*entity.Package
}

func (m *memPackages) Create(_ context.Context, p *entity.Package) error {
	p.ID = int64(len(m.list) + 1)
	m.list = append(m.list, p)
	return nil
}

func (m *memPackages) List(context.Context, bool) ([]*entity.Package, error) {
	return m.list, nil
}

type sentNotifier struct{}

func (sentNotifier) Notify(context.Context, voucher.VoucherNotice) (string, error) {
	return voucher.NotificationSent, nil
}

type fakeReceipts struct{}

func (fakeReceipts) RenderReceipt(context.Context, *entity.Voucher, *entity.User) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}
