// Package subscription administra los paquetes de suscripción.
package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
)

// PackageUseCase CRUD simple de paquetes.
type PackageUseCase struct {
	repo repository.PackageRepository
}

// NewPackageUseCase construye el caso de uso.
func NewPackageUseCase(repo repository.PackageRepository) *PackageUseCase {
	return &PackageUseCase{repo: repo}
}

// Create crea un paquete activo. Precio y créditos no pueden ser negativos.
func (uc *PackageUseCase) Create(ctx context.Context, in dto.CreatePackageRequest) (*dto.PackageResponse, error) {
	if in.Price.IsNegative() || in.Credits.IsNegative() {
		return nil, fmt.Errorf("%w: precio y créditos deben ser >= 0", domain.ErrInvalidInput)
	}
	p := &entity.Package{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Credits:     in.Credits,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := toResponse(p)
	return &out, nil
}

// List lista paquetes; onlyActive oculta los desactivados.
func (uc *PackageUseCase) List(ctx context.Context, onlyActive bool) ([]dto.PackageResponse, error) {
	list, err := uc.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PackageResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toResponse(p))
	}
	return out, nil
}

func toResponse(p *entity.Package) dto.PackageResponse {
	return dto.PackageResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Credits:     p.Credits,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}
