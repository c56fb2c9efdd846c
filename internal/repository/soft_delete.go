package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const notDeleted = "is_deleted = ?"

// live scopes a query to rows that are not soft-deleted.
func live(db *gorm.DB) *gorm.DB {
	return db.Where(notDeleted, false)
}

// softDelete flags one live row of T. A missing or already deleted row
// yields ErrNotFound.
func softDelete[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, at time.Time, by *uuid.UUID) error {
	result := db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Scopes(live).
		Updates(model.SoftDeleteColumns(at, by))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// restore clears the delete flag, timestamp and actor of one deleted row
// of T. A live row yields ErrNotDeleted, a missing one ErrNotFound.
func restore[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	result := db.WithContext(ctx).
		Model(new(T)).
		Where("id = ? AND is_deleted = ?", id, true).
		Updates(model.RestoreColumns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrNotDeleted
}

// findAny loads a row of T whether or not it is deleted.
func findAny[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) (*T, error) {
	var out T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// Page is one page of a list query.
type Page[T any] struct {
	Items []T
	Total int64
}

// paginate counts the rows matched by query, then loads one ordered page
// with the given associations preloaded.
func paginate[T any](query *gorm.DB, limit, offset int, order string, preloads ...string) (Page[T], error) {
	var page Page[T]
	if err := query.Session(&gorm.Session{}).Count(&page.Total).Error; err != nil {
		return page, err
	}
	page.Items = make([]T, 0, limit)
	if page.Total == 0 {
		return page, nil
	}

	find := query.Session(&gorm.Session{})
	for _, p := range preloads {
		find = find.Preload(p)
	}
	err := find.Order(order).Limit(limit).Offset(offset).Find(&page.Items).Error
	return page, err
}
