package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	List(ctx context.Context, itemType *domain.ItemType) ([]domain.Category, error)
	ListWithCounts(ctx context.Context, itemType domain.ItemType) ([]domain.CategoryCount, error)
	Rename(ctx context.Context, id uuid.UUID, name, slug string) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	// SeedFromContent fills an empty categories table from the distinct category
	// names already used by content. It returns how many rows were inserted.
	SeedFromContent(ctx context.Context, at time.Time) (int, error)
}

type FacilityRepository interface {
	Create(ctx context.Context, preset *domain.FacilityPreset) (*domain.FacilityPreset, error)
	List(ctx context.Context, itemType domain.ItemType) ([]domain.FacilityPreset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
