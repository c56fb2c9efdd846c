package model

import (
	"time"

	"github.com/google/uuid"
)

type Penalty struct {
	Base
	UserID      uuid.UUID `gorm:"column:user_id;size:36;not null;index"`
	User        User      `gorm:"foreignKey:UserID"`
	Category    string    `gorm:"column:category;size:100;not null"`
	Reason      string    `gorm:"column:reason;size:200;not null"`
	Description string    `gorm:"column:description;size:2000"`
	Amount      int       `gorm:"column:amount;not null;default:0"`
	Status      string    `gorm:"column:status;size:50"`
	Date        time.Time `gorm:"column:date;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	SoftDelete
}

func (Penalty) TableName() string { return "penalties" }
