package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
)

type CarouselRepository interface {
	Create(ctx context.Context, slide *domain.CarouselSlide) (*domain.CarouselSlide, error)
	Update(ctx context.Context, slide *domain.CarouselSlide) (*domain.CarouselSlide, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.CarouselSlide, error)
	// List returns slides by slide_order, only active ones when activeOnly is set.
	List(ctx context.Context, activeOnly bool) ([]domain.CarouselSlide, error)
}
