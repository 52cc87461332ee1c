package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
)

type AdminUserRepository interface {
	Create(ctx context.Context, user *domain.AdminUser) (*domain.AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error)
}
