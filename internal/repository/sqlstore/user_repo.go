package sqlstore

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

type AdminUserRepository struct {
	db *sqlx.DB
}

func NewAdminUserRepo(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

const adminUserColumns = `id, username, email, password_hash, password_salt, role, created_at`

func (r *AdminUserRepository) Create(ctx context.Context, u *domain.AdminUser) (*domain.AdminUser, error) {
	query := r.db.Rebind(`INSERT INTO admin_users (` + adminUserColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		u.ID, strings.ToLower(u.Username), nullString(u.Email), u.PasswordHash, u.PasswordSalt, u.Role, u.CreatedAt,
	)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return r.FindByID(ctx, u.ID)
}

func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	query := r.db.Rebind(`SELECT ` + adminUserColumns + ` FROM admin_users WHERE username = ?`)
	var u domain.AdminUser
	if err := r.db.GetContext(ctx, &u, query, strings.ToLower(username)); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error) {
	query := r.db.Rebind(`SELECT ` + adminUserColumns + ` FROM admin_users WHERE id = ?`)
	var u domain.AdminUser
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		return nil, err
	}
	return &u, nil
}

var _ ports.AdminUserRepository = (*AdminUserRepository)(nil)
