package model

import "gorm.io/datatypes"

type Tier struct {
	Base
	Name        string         `gorm:"column:name;size:200;not null;index"`
	Description string         `gorm:"column:description;size:2000"`
	Costs       datatypes.JSON `gorm:"column:costs"`
	SoftDelete
}

func (Tier) TableName() string { return "tiers" }
