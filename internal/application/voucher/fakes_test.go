package voucher_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
)

// memStore tabla de vouchers en memoria; RunVouchers serializa las transacciones
// y restaura el estado previo si fn falla.
type memStore struct {
	mu       sync.Mutex
	vouchers map[int64]*entity.Voucher
}

func newMemStore(vs ...*entity.Voucher) *memStore {
	s := &memStore{vouchers: make(map[int64]*entity.Voucher)}
	for _, v := range vs {
		s.vouchers[v.ID] = v
	}
	return s
}

func (s *memStore) RunVouchers(ctx context.Context, fn func(repository.VoucherRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[int64]entity.Voucher, len(s.vouchers))
	for id, v := range s.vouchers {
		snapshot[id] = *v
	}
	if err := fn(&memRepo{s: s}); err != nil {
		for id, v := range snapshot {
			*s.vouchers[id] = v
		}
		return err
	}
	return nil
}

func (s *memStore) get(id int64) entity.Voucher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.vouchers[id]
}

// memRepo vista del store dentro de una transacción (el lock ya está tomado).
type memRepo struct {
	repository.VoucherRepository
	s *memStore
}

func (r *memRepo) ClaimAvailable(_ context.Context, req repository.ClaimRequest) ([]*entity.Voucher, error) {
	ids := make([]int64, 0, len(r.s.vouchers))
	for id := range r.s.vouchers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*entity.Voucher
	for _, id := range ids {
		if len(out) == req.Quantity {
			break
		}
		v := r.s.vouchers[id]
		if v.Type != req.Type || v.ProductCode != req.ProductCode || !v.Claimable(req.At) {
			continue
		}
		owner, at := req.OwnerID, req.At
		v.OwnerID = &owner
		v.UsedDate = &at
		v.Status = entity.VoucherStatusSold
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

type fakeUsers struct {
	repository.UserRepository
	byID map[int64]*entity.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	return f.byID[id], nil
}

// recordingNotifier guarda los avisos; failFor fuerza error para esos voucher IDs.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []voucher.VoucherNotice
	failFor map[int64]bool
	outcome string
}

func (n *recordingNotifier) Notify(_ context.Context, notice voucher.VoucherNotice) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	if n.failFor[notice.Voucher.ID] {
		return voucher.NotificationFailed, errors.New("smtp: conexión rechazada")
	}
	if n.outcome != "" {
		return n.outcome, nil
	}
	return voucher.NotificationSent, nil
}
