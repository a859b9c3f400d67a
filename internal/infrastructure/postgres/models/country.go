package models

import "time"

type CountryModel struct {
	ID              string   `gorm:"primaryKey;type:uuid"`
	Name            string   `gorm:"uniqueIndex;not null"`
	Capital         string
	Region          string   `gorm:"index:idx_countries_region"`
	Population      int64
	CurrencyCode    *string  `gorm:"index:idx_countries_currency_code"`
	ExchangeRate    *float64
	EstimatedGDP    int64    `gorm:"column:estimated_gdp;index:idx_countries_estimated_gdp"`
	FlagURL         string   `gorm:"column:flag_url"`
	LastRefreshedAt time.Time
}

func (CountryModel) TableName() string {
	return "countries"
}

// StatusModel is a singleton row (id = 1) seeded by the initial migration.
type StatusModel struct {
	ID              int64 `gorm:"primaryKey"`
	TotalCountries  int64
	LastRefreshedAt *time.Time
}

func (StatusModel) TableName() string {
	return "refresh_status"
}
