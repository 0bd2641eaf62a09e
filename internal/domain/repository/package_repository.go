package repository

import (
	"context"

	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

// PackageRepository define el puerto de persistencia para Package (DIP).
type PackageRepository interface {
	Create(ctx context.Context, p *entity.Package) error
	List(ctx context.Context, onlyActive bool) ([]*entity.Package, error)
}
