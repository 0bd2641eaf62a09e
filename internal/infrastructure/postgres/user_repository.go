package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, display_name, email, login, password_hash, role, status, level,
	upline_id, referred_by_id, credits, referral_code, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario y completa su ID.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (display_name, email, login, password_hash, role, status, level,
			upline_id, referred_by_id, credits, referral_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		user.DisplayName, user.Email, user.Login, user.PasswordHash, user.Role, user.Status, user.Level,
		user.UplineID, user.ReferredByID, user.Credits, user.ReferralCode, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return uniqueUserError(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. nil, nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "lower(email) = lower($1)", email)
}

// GetByLogin obtiene un usuario por login.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	return r.findOne(ctx, "login = $1", login)
}

// GetByReferralCode resuelve un código de invitación a su dueño.
func (r *UserRepo) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	return r.findOne(ctx, "referral_code = $1", code)
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1`
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user (%s): %w", where, err)
	}
	return u, nil
}

// ListAll devuelve todos los usuarios ordenados por id.
func (r *UserRepo) ListAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.DisplayName, &u.Email, &u.Login, &u.PasswordHash, &u.Role, &u.Status, &u.Level,
		&u.UplineID, &u.ReferredByID, &u.Credits, &u.ReferralCode, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
