package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	Base
	UserID          uuid.UUID       `gorm:"column:user_id;size:36;not null;index"`
	User            User            `gorm:"foreignKey:UserID"`
	TotalCollection decimal.Decimal `gorm:"column:total_collection;type:decimal(18,2);not null;default:0"`
	Bill            decimal.Decimal `gorm:"column:bill;type:decimal(18,2);not null;default:0"`
	Arrears         decimal.Decimal `gorm:"column:arrears;type:decimal(18,2);not null;default:0"`
	Notes           string          `gorm:"column:notes;size:2000"`
	Status          string          `gorm:"column:status;size:100"`
	Date            time.Time       `gorm:"column:date;not null;index"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	SoftDelete
}

func (Expense) TableName() string { return "expenses" }
