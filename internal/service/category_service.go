package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

type CategoryService struct {
	categories ports.CategoryRepository
	now        func() time.Time
}

func NewCategoryService(categories ports.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories, now: time.Now}
}

func (s *CategoryService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *CategoryService) Add(ctx context.Context, name, itemType string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	t, err := domain.ParseItemType(itemType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      domain.Slugify(name),
		Type:      t,
		CreatedAt: s.now().UTC(),
	}
	stored, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%w: insert category: %v", ErrStoreFailure, err)
	}
	return stored, nil
}

// List returns categories of one type ordered by name, or all categories
// ordered by type then name when itemType is empty.
func (s *CategoryService) List(ctx context.Context, itemType string) ([]domain.Category, error) {
	var filter *domain.ItemType
	if strings.TrimSpace(itemType) != "" {
		t, err := domain.ParseItemType(itemType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		filter = &t
	}
	categories, err := s.categories.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", ErrStoreFailure, err)
	}
	return categories, nil
}

func (s *CategoryService) ListWithCounts(ctx context.Context, itemType string) ([]domain.CategoryCount, error) {
	t, err := domain.ParseItemType(itemType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	counts, err := s.categories.ListWithCounts(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("%w: count categories: %v", ErrStoreFailure, err)
	}
	return counts, nil
}

// Rename changes the display name and slug. Content rows referencing the old
// name are left as they are.
func (s *CategoryService) Rename(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	updated, err := s.categories.Rename(ctx, id, name, domain.Slugify(name))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("%w: rename category: %v", ErrStoreFailure, err)
	}
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("%w: delete category: %v", ErrStoreFailure, err)
	}
	return deleted, nil
}

// EnsureSeedCategories fills an empty registry from categories already used by
// content. It is a no-op once any category exists.
func (s *CategoryService) EnsureSeedCategories(ctx context.Context) (int, error) {
	n, err := s.categories.SeedFromContent(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: seed categories: %v", ErrStoreFailure, err)
	}
	return n, nil
}
