package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
)

type AdminSessionRepository interface {
	Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.AdminSession, error)
	Deactivate(ctx context.Context, token string) error
	FindActive(ctx context.Context, token string) (*domain.AdminSession, error)
}
