package repository

import (
	"context"

	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByLogin(ctx context.Context, login string) (*entity.User, error)
	GetByReferralCode(ctx context.Context, code string) (*entity.User, error)
	// ListAll devuelve todos los usuarios en orden de inserción (id ascendente);
	// la genealogía depende de ese orden para ordenar hijos.
	ListAll(ctx context.Context) ([]*entity.User, error)
}
