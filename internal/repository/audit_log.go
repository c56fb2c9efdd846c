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

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateLog")

	if err := r.db.WithContext(ctx).Omit("User").Create(entry).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create log").
			String("user_id", entry.UserID.String()).
			Err(err).
			Log()
		return err
	}
	return nil
}

func (r *AuditLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AuditLog, error) {
	var entry model.AuditLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Scopes(live).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *AuditLogRepository) List(ctx context.Context, userID *uuid.UUID, limit, offset int) (Page[model.AuditLog], error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListLogs")

	query := r.db.WithContext(ctx).Model(&model.AuditLog{}).Scopes(live)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	page, err := paginate[model.AuditLog](query, limit, offset, "created_at DESC", "User")
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list logs").
			Err(err).
			Log()
	}
	return page, err
}

func (r *AuditLogRepository) Update(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).
		Model(entry).
		Scopes(live).
		Select("user_id", "action", "result").
		Updates(entry).Error
}

func (r *AuditLogRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time, by *uuid.UUID) error {
	return softDelete[model.AuditLog](ctx, r.db, id, at, by)
}

func (r *AuditLogRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return restore[model.AuditLog](ctx, r.db, id)
}
