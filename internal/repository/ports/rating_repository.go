package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error)
	Exists(ctx context.Context, itemType domain.ItemType, itemID, deviceID string) (bool, error)
	ListByItem(ctx context.Context, itemType domain.ItemType, itemID string, includeHidden bool) ([]domain.Rating, error)
	ListAll(ctx context.Context) ([]domain.AdminRating, error)
	ToggleVisibility(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountVisibleByValue(ctx context.Context, itemType domain.ItemType, itemID string) (map[int]int, error)
}
