package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the UUID primary key shared by every table.
type Base struct {
	ID uuid.UUID `gorm:"column:id;primaryKey;size:36"`
}

// BeforeCreate assigns an id when the caller did not.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// SoftDelete marks a row as removed without dropping it. DeletedBy is nil
// when the actor is unknown, e.g. with authorization disabled.
type SoftDelete struct {
	IsDeleted bool       `gorm:"column:is_deleted;not null;default:false;index"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
	DeletedBy *uuid.UUID `gorm:"column:deleted_by;size:36"`
}

// SoftDeleteColumns is the update applied by a delete.
func SoftDeleteColumns(at time.Time, by *uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"is_deleted": true,
		"deleted_at": at,
		"deleted_by": by,
	}
}

// RestoreColumns is the update applied by a restore.
func RestoreColumns() map[string]interface{} {
	return map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
		"deleted_by": nil,
	}
}
