package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
)

type DestinationRepository interface {
	Create(ctx context.Context, destination *domain.Destination) (*domain.Destination, error)
	Update(ctx context.Context, destination *domain.Destination) (*domain.Destination, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error)
	List(ctx context.Context) ([]domain.Destination, error)
}

type CulinaryRepository interface {
	Create(ctx context.Context, culinary *domain.Culinary) (*domain.Culinary, error)
	Update(ctx context.Context, culinary *domain.Culinary) (*domain.Culinary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Culinary, error)
	List(ctx context.Context) ([]domain.Culinary, error)
}
