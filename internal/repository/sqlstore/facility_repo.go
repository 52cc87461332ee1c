package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

type FacilityRepository struct {
	db *sqlx.DB
}

func NewFacilityRepo(db *sqlx.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

func (r *FacilityRepository) Create(ctx context.Context, p *domain.FacilityPreset) (*domain.FacilityPreset, error) {
	query := r.db.Rebind(`INSERT INTO facility_presets (id, type, name, icon_name, created_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, p.ID, string(p.Type), p.Name, nullString(p.IconName), p.CreatedAt); err != nil {
		return nil, mapWriteErr(err)
	}
	stored := *p
	return &stored, nil
}

func (r *FacilityRepository) List(ctx context.Context, itemType domain.ItemType) ([]domain.FacilityPreset, error) {
	query := r.db.Rebind(`
		SELECT id, type, name, icon_name, created_at
		FROM facility_presets
		WHERE type = ?
		ORDER BY name ASC
	`)
	presets := []domain.FacilityPreset{}
	if err := r.db.SelectContext(ctx, &presets, query, string(itemType)); err != nil {
		return nil, err
	}
	return presets, nil
}

func (r *FacilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM facility_presets WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

var _ ports.FacilityRepository = (*FacilityRepository)(nil)
