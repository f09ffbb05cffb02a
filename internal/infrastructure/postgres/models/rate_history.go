package models

import "time"

// RateHistoryModel - строка истории курсов, только вставка
type RateHistoryModel struct {
	ID           uint      `gorm:"primaryKey"`
	FromCurrency string    `gorm:"type:varchar(10);not null;index:idx_rates_history_pair_created,priority:1"`
	ToCurrency   string    `gorm:"type:varchar(10);not null;index:idx_rates_history_pair_created,priority:2"`
	Rate         float64   `gorm:"not null"`
	Source       string    `gorm:"type:varchar(64);not null"`
	CreatedAt    time.Time `gorm:"not null;index:idx_rates_history_pair_created,priority:3"`
}

func (RateHistoryModel) TableName() string {
	return "rates_history"
}

// RateHistoryStatsRow - результат агрегации по паре
type RateHistoryStatsRow struct {
	FromCurrency string
	ToCurrency   string
	Count        int64
	MinRate      float64
	MaxRate      float64
	AvgRate      float64
	FirstAt      time.Time
	LastAt       time.Time
}
