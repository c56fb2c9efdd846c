package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	var activity model.Activity
	if err := r.db.WithContext(ctx).Scopes(live).Where("id = ?", id).First(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *ActivityRepository) List(ctx context.Context, limit, offset int) (Page[model.Activity], error) {
	return paginate[model.Activity](r.db.WithContext(ctx).Model(&model.Activity{}).Scopes(live), limit, offset, "date DESC, created_at DESC")
}

// ListInWindow returns live activities dated within [from, to].
func (r *ActivityRepository) ListInWindow(ctx context.Context, from, to time.Time) ([]model.Activity, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListActivitiesInWindow")

	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Scopes(live).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&activities).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list upcoming activities").
			Err(err).
			Log()
	}
	return activities, err
}

func (r *ActivityRepository) Update(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).
		Model(activity).
		Scopes(live).
		Select("name", "description", "date").
		Updates(activity).Error
}

func (r *ActivityRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time, by *uuid.UUID) error {
	return softDelete[model.Activity](ctx, r.db, id, at, by)
}

func (r *ActivityRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return restore[model.Activity](ctx, r.db, id)
}
