// Package user consultas de cuentas y resolución de códigos de invitación.
package user

import (
	"context"
	"strings"

	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
)

// UserUseCase casos de uso de lectura sobre usuarios.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List devuelve todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToResponse(u))
	}
	return out, nil
}

// Get obtiene un usuario por ID.
func (uc *UserUseCase) Get(ctx context.Context, id int64) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	out := ToResponse(u)
	return &out, nil
}

// ResolveInvitation devuelve el upline y el nivel que tendrá quien se registre con code.
func (uc *UserUseCase) ResolveInvitation(ctx context.Context, code string) (*dto.InvitationResponse, error) {
	inviter, err := ResolveInviter(ctx, uc.repo, code)
	if err != nil {
		return nil, err
	}
	return &dto.InvitationResponse{UplineID: inviter.ID, Level: inviter.Level + 1}, nil
}

// ResolveInviter busca el dueño de un código de invitación activo.
func ResolveInviter(ctx context.Context, repo repository.UserRepository, code string) (*entity.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInvitation
	}
	inviter, err := repo.GetByReferralCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if inviter == nil || inviter.Status != entity.UserStatusActive {
		return nil, domain.ErrInvalidInvitation
	}
	return inviter, nil
}

// ToResponse convierte la entidad al DTO de salida (sin hash de contraseña).
func ToResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           u.ID,
		DisplayName:  u.DisplayName,
		Email:        u.Email,
		Login:        u.Login,
		Role:         u.Role,
		Status:       u.Status,
		Level:        u.Level,
		UplineID:     u.UplineID,
		ReferredByID: u.ReferredByID,
		Credits:      u.Credits,
		ReferralCode: u.ReferralCode,
		CreatedAt:    u.CreatedAt,
	}
}
