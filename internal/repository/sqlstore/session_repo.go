package sqlstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

type AdminSessionRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSessionRepo(db *sqlx.DB) *AdminSessionRepository {
	return &AdminSessionRepository{db: db, now: time.Now}
}

func (r *AdminSessionRepository) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.AdminSession, error) {
	session := domain.AdminSession{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		CreatedAt: r.now().UTC(),
		ExpiresAt: expiresAt.UTC(),
		IsActive:  true,
	}
	query := r.db.Rebind(`
		INSERT INTO admin_sessions (id, user_id, token, created_at, expires_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.Token, session.CreatedAt, session.ExpiresAt, session.IsActive,
	)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return &session, nil
}

func (r *AdminSessionRepository) Deactivate(ctx context.Context, token string) error {
	query := r.db.Rebind(`
		UPDATE admin_sessions SET is_active = FALSE, expires_at = ?
		WHERE token = ? AND is_active = TRUE
	`)
	_, err := r.db.ExecContext(ctx, query, r.now().UTC(), token)
	return err
}

func (r *AdminSessionRepository) FindActive(ctx context.Context, token string) (*domain.AdminSession, error) {
	query := r.db.Rebind(`
		SELECT id, user_id, token, created_at, expires_at, is_active
		FROM admin_sessions
		WHERE token = ? AND is_active = TRUE AND expires_at > ?
	`)
	var session domain.AdminSession
	if err := r.db.GetContext(ctx, &session, query, token, r.now().UTC()); err != nil {
		return nil, err
	}
	return &session, nil
}

var _ ports.AdminSessionRepository = (*AdminSessionRepository)(nil)
