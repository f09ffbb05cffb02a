package models

import "time"

type SettingModel struct {
	Key         string `gorm:"column:key;primaryKey;type:varchar(100)"`
	Value       string `gorm:"not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SettingModel) TableName() string {
	return "config"
}
