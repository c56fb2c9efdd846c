package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is a free-form action record owned by a user.
type AuditLog struct {
	Base
	UserID    uuid.UUID `gorm:"column:user_id;size:36;not null;index"`
	User      User      `gorm:"foreignKey:UserID"`
	Action    string    `gorm:"column:action;size:200;not null"`
	Result    string    `gorm:"column:result;size:1000"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	SoftDelete
}

func (AuditLog) TableName() string { return "logs" }
