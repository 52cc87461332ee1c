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

type FacilityService struct {
	facilities ports.FacilityRepository
	now        func() time.Time
}

func NewFacilityService(facilities ports.FacilityRepository) *FacilityService {
	return &FacilityService{facilities: facilities, now: time.Now}
}

func (s *FacilityService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *FacilityService) Add(ctx context.Context, itemType, name string, iconName *string) (*domain.FacilityPreset, error) {
	t, err := domain.ParseItemType(itemType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: facility name is required", ErrValidation)
	}
	preset := &domain.FacilityPreset{
		ID:        uuid.New(),
		Type:      t,
		Name:      name,
		IconName:  normalizeString(iconName),
		CreatedAt: s.now().UTC(),
	}
	stored, err := s.facilities.Create(ctx, preset)
	if err != nil {
		return nil, fmt.Errorf("%w: insert facility: %v", ErrStoreFailure, err)
	}
	return stored, nil
}

func (s *FacilityService) List(ctx context.Context, itemType string) ([]domain.FacilityPreset, error) {
	t, err := domain.ParseItemType(itemType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	presets, err := s.facilities.List(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("%w: list facilities: %v", ErrStoreFailure, err)
	}
	return presets, nil
}

func (s *FacilityService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.facilities.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrFacilityNotFound
		}
		return fmt.Errorf("%w: delete facility: %v", ErrStoreFailure, err)
	}
	return nil
}
