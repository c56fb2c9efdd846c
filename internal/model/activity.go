package model

import "time"

type Activity struct {
	Base
	Name        string    `gorm:"column:name;size:200;not null"`
	Description string    `gorm:"column:description;size:1000"`
	Date        time.Time `gorm:"column:date;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	SoftDelete
}

func (Activity) TableName() string { return "activities" }
