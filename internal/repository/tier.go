package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TierRepository struct {
	db *gorm.DB
}

func NewTierRepository(db *gorm.DB) *TierRepository {
	return &TierRepository{db: db}
}

func (r *TierRepository) Create(ctx context.Context, tier *model.Tier) error {
	return r.db.WithContext(ctx).Create(tier).Error
}

func (r *TierRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tier, error) {
	var tier model.Tier
	if err := r.db.WithContext(ctx).Scopes(live).Where("id = ?", id).First(&tier).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *TierRepository) List(ctx context.Context, limit, offset int) (Page[model.Tier], error) {
	return paginate[model.Tier](r.db.WithContext(ctx).Model(&model.Tier{}).Scopes(live), limit, offset, "name ASC, id ASC")
}

// NameExists compares names case-insensitively among live tiers other
// than excludeID.
func (r *TierRepository) NameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Tier{}).
		Scopes(live).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *TierRepository) Update(ctx context.Context, tier *model.Tier) error {
	return r.db.WithContext(ctx).
		Model(tier).
		Scopes(live).
		Select("name", "description", "costs").
		Updates(tier).Error
}

func (r *TierRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time, by *uuid.UUID) error {
	return softDelete[model.Tier](ctx, r.db, id, at, by)
}

func (r *TierRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return restore[model.Tier](ctx, r.db, id)
}
