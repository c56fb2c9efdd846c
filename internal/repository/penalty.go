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

type PenaltyRepository struct {
	db *gorm.DB
}

func NewPenaltyRepository(db *gorm.DB) *PenaltyRepository {
	return &PenaltyRepository{db: db}
}

func (r *PenaltyRepository) Create(ctx context.Context, penalty *model.Penalty) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreatePenalty")

	if err := r.db.WithContext(ctx).Omit("User").Create(penalty).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create penalty").
			String("user_id", penalty.UserID.String()).
			Err(err).
			Log()
		return err
	}
	return nil
}

// GetByID returns a live penalty with its owner.
func (r *PenaltyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Penalty, error) {
	var penalty model.Penalty
	err := r.db.WithContext(ctx).
		Preload("User").
		Scopes(live).
		Where("id = ?", id).
		First(&penalty).Error
	if err != nil {
		return nil, err
	}
	return &penalty, nil
}

// List pages through live penalties, newest date first, optionally for
// one user.
func (r *PenaltyRepository) List(ctx context.Context, userID *uuid.UUID, limit, offset int) (Page[model.Penalty], error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListPenalties")

	query := r.db.WithContext(ctx).Model(&model.Penalty{}).Scopes(live)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	start := time.Now()
	page, err := paginate[model.Penalty](query, limit, offset, "date DESC, created_at DESC", "User")
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list penalties").
			Duration(time.Since(start)).
			Err(err).
			Log()
	}
	return page, err
}

func (r *PenaltyRepository) Update(ctx context.Context, penalty *model.Penalty) error {
	return r.db.WithContext(ctx).
		Model(penalty).
		Scopes(live).
		Select("user_id", "category", "reason", "description", "amount", "status", "date").
		Updates(penalty).Error
}

func (r *PenaltyRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time, by *uuid.UUID) error {
	return softDelete[model.Penalty](ctx, r.db, id, at, by)
}

func (r *PenaltyRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return restore[model.Penalty](ctx, r.db, id)
}
