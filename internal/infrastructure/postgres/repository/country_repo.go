package repository

import (
	"errors"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// statusRowID pins the singleton status row.
const statusRowID = 1

// upsertBatchSize keeps the bulk insert under Postgres' 65535 bind parameter cap.
const upsertBatchSize = 500

type DefaultCountryRepository struct {
	DB *gorm.DB
}

func NewDefaultCountryRepository(db *gorm.DB) *DefaultCountryRepository {
	return &DefaultCountryRepository{DB: db}
}

// SaveRefresh writes the whole cycle in one transaction: bulk upsert keyed by
// unique name, then the status row. On any error the prior state is retained
// entirely.
func (r *DefaultCountryRepository) SaveRefresh(countries []*domain.Country, refreshedAt time.Time) (int64, error) {
	rows := make([]models.CountryModel, len(countries))
	for i, country := range countries {
		rows[i] = models.CountryModel{
			ID:              uuid.New().String(),
			Name:            country.Name,
			Capital:         country.Capital,
			Region:          country.Region,
			Population:      country.Population,
			CurrencyCode:    country.CurrencyCode,
			ExchangeRate:    country.ExchangeRate,
			EstimatedGDP:    country.EstimatedGDP,
			FlagURL:         country.FlagURL,
			LastRefreshedAt: refreshedAt,
		}
	}

	total := int64(len(rows))
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"capital", "region", "population", "currency_code",
					"exchange_rate", "estimated_gdp", "flag_url", "last_refreshed_at",
				}),
			}).CreateInBatches(&rows, upsertBatchSize).Error; err != nil {
				return err
			}
		}

		result := tx.Model(&models.StatusModel{}).
			Where("id = ?", statusRowID).
			Updates(map[string]interface{}{
				"total_countries":   total,
				"last_refreshed_at": refreshedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Seed row missing, e.g. a fresh database without migrations.
			return tx.Create(&models.StatusModel{
				ID:              statusRowID,
				TotalCountries:  total,
				LastRefreshedAt: &refreshedAt,
			}).Error
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *DefaultCountryRepository) List(filter domain.CountryFilter) ([]*domain.Country, error) {
	query := r.DB.Model(&models.CountryModel{})

	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.CurrencyCode != "" {
		query = query.Where("currency_code = ?", filter.CurrencyCode)
	}
	if filter.SortByGDPDesc {
		query = query.Order("estimated_gdp DESC")
	}

	var rows []models.CountryModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	countries := make([]*domain.Country, len(rows))
	for i := range rows {
		countries[i] = toDomainCountry(&rows[i])
	}
	return countries, nil
}

func (r *DefaultCountryRepository) GetByName(name string) (*domain.Country, error) {
	var row models.CountryModel
	if err := r.DB.Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCountryNotFound
		}
		return nil, err
	}

	return toDomainCountry(&row), nil
}

func (r *DefaultCountryRepository) DeleteByName(name string) error {
	result := r.DB.Where("name = ?", name).Delete(&models.CountryModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCountryNotFound
	}
	return nil
}

func (r *DefaultCountryRepository) GetStatus() (*domain.RefreshStatus, error) {
	var row models.StatusModel
	if err := r.DB.Where("id = ?", statusRowID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStatusNotFound
		}
		return nil, err
	}

	return &domain.RefreshStatus{
		TotalCountries:  row.TotalCountries,
		LastRefreshedAt: row.LastRefreshedAt,
	}, nil
}

func (r *DefaultCountryRepository) TopByGDP(limit int) ([]*domain.Country, error) {
	var rows []models.CountryModel
	if err := r.DB.Order("estimated_gdp DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	countries := make([]*domain.Country, len(rows))
	for i := range rows {
		countries[i] = toDomainCountry(&rows[i])
	}
	return countries, nil
}

func toDomainCountry(row *models.CountryModel) *domain.Country {
	return &domain.Country{
		Name:            row.Name,
		Capital:         row.Capital,
		Region:          row.Region,
		Population:      row.Population,
		CurrencyCode:    row.CurrencyCode,
		ExchangeRate:    row.ExchangeRate,
		EstimatedGDP:    row.EstimatedGDP,
		FlagURL:         row.FlagURL,
		LastRefreshedAt: row.LastRefreshedAt,
	}
}
