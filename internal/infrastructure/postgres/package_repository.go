package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
)

var _ repository.PackageRepository = (*PackageRepo)(nil)

// PackageRepo persistencia de paquetes de suscripción.
type PackageRepo struct {
	q Querier
}

// NewPackageRepository construye el adaptador. Pasar pool o tx.
func NewPackageRepository(q Querier) *PackageRepo {
	return &PackageRepo{q: q}
}

// Create inserta un paquete y completa su ID.
func (r *PackageRepo) Create(ctx context.Context, p *entity.Package) error {
	query := `
		INSERT INTO packages (name, description, price, credits, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, p.Name, p.Description, p.Price, p.Credits, p.Active, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert package: %w", err)
	}
	return nil
}

// List lista paquetes por nombre; onlyActive oculta los desactivados.
func (r *PackageRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Package, error) {
	query := `
		SELECT id, name, description, price, credits, active, created_at
		FROM packages
		WHERE active OR NOT $1
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Package
	for rows.Next() {
		var p entity.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Credits, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
