package models

import "time"

type CommissionModel struct {
	ID                uint     `gorm:"primaryKey"`
	Currency          string   `gorm:"type:varchar(10);not null;index"`
	MinAmount         float64  `gorm:"not null;default:0"`
	MaxAmount         *float64 `gorm:"default:null"`
	CommissionPercent float64  `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (CommissionModel) TableName() string {
	return "commissions"
}
