package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/application/user"
	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
	"github.com/jhoicas/vouchers-api/pkg/jwt"
	"github.com/jhoicas/vouchers-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

const (
	referralCodeLen      = 8
	referralCodeAttempts = 3
)

var referralChars = []byte("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	users  repository.UserRepository
	jwtCfg JWTConfig
	log    *logger.Logger
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{users: users, jwtCfg: jwtCfg, log: log.Component("auth"), now: time.Now}
}

// Register crea una cuenta. Con código de invitación el nuevo usuario cuelga del dueño del
// código (upline y referido) un nivel por debajo; sin código queda como raíz de nivel 0.
//
// actorRole es el rol de quien hace la petición ("" si es anónima). Solo un master puede
// crear cuentas master o distributor; el autorregistro siempre queda como merchant.
// El rol master además solo puede tomarse como raíz.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest, actorRole string) (*dto.UserResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Login = strings.TrimSpace(in.Login)

	if existing, err := uc.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if existing, err := uc.users.GetByLogin(ctx, in.Login); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrLoginAlreadyExists
	}

	role := in.Role
	if role == "" {
		role = entity.RoleMerchant
	}
	if !entity.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	if role != entity.RoleMerchant && actorRole != entity.RoleMaster {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	u := &entity.User{
		DisplayName: strings.TrimSpace(in.DisplayName),
		Email:       in.Email,
		Login:       in.Login,
		Role:        role,
		Status:      entity.UserStatusActive,
		Credits:     decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if u.DisplayName == "" {
		u.DisplayName = in.Login
	}
	if in.InvitationCode != "" {
		if role == entity.RoleMaster {
			return nil, domain.ErrForbidden
		}
		inviter, err := user.ResolveInviter(ctx, uc.users, in.InvitationCode)
		if err != nil {
			return nil, err
		}
		u.UplineID = &inviter.ID
		u.ReferredByID = &inviter.ID
		u.Level = inviter.Level + 1
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = string(hash)

	// el código de referido es aleatorio; ante colisión se genera otro
	for attempt := 1; ; attempt++ {
		u.ReferralCode = uniuri.NewLenChars(referralCodeLen, referralChars)
		err = uc.users.Create(ctx, u)
		if !errors.Is(err, domain.ErrDuplicate) || attempt == referralCodeAttempts {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("user_id", u.ID).Int("level", u.Level).Bool("root", u.IsRoot()).Msg("usuario registrado")
	out := user.ToResponse(u)
	return &out, nil
}

// Login verifica credenciales (login o email) y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	id := strings.TrimSpace(in.Login)
	u, err := uc.users.GetByLogin(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil && strings.Contains(id, "@") {
		if u, err = uc.users.GetByEmail(ctx, id); err != nil {
			return nil, err
		}
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if u.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, u.ID, u.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: user.ToResponse(u)}, nil
}
