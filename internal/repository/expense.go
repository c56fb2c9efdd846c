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

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateExpense")

	if err := r.db.WithContext(ctx).Omit("User").Create(expense).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create expense").
			String("user_id", expense.UserID.String()).
			Err(err).
			Log()
		return err
	}
	return nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	err := r.db.WithContext(ctx).
		Preload("User").
		Scopes(live).
		Where("id = ?", id).
		First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *ExpenseRepository) List(ctx context.Context, userID *uuid.UUID, limit, offset int) (Page[model.Expense], error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListExpenses")

	query := r.db.WithContext(ctx).Model(&model.Expense{}).Scopes(live)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	page, err := paginate[model.Expense](query, limit, offset, "date DESC, created_at DESC", "User")
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list expenses").
			Err(err).
			Log()
	}
	return page, err
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).
		Model(expense).
		Scopes(live).
		Select("user_id", "total_collection", "bill", "arrears", "notes", "status", "date").
		Updates(expense).Error
}

func (r *ExpenseRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time, by *uuid.UUID) error {
	return softDelete[model.Expense](ctx, r.db, id, at, by)
}

func (r *ExpenseRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return restore[model.Expense](ctx, r.db, id)
}
