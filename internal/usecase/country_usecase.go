package usecase

import "github.com/LavaJover/shvark-country-service/internal/domain"

type DefaultCountryUsecase struct {
	CountryRepo domain.CountryRepository
}

func NewDefaultCountryUsecase(countryRepo domain.CountryRepository) *DefaultCountryUsecase {
	return &DefaultCountryUsecase{CountryRepo: countryRepo}
}

func (uc *DefaultCountryUsecase) ListCountries(filter domain.CountryFilter) ([]*domain.Country, error) {
	return uc.CountryRepo.List(filter)
}

func (uc *DefaultCountryUsecase) GetCountryByName(name string) (*domain.Country, error) {
	return uc.CountryRepo.GetByName(name)
}

func (uc *DefaultCountryUsecase) DeleteCountryByName(name string) error {
	return uc.CountryRepo.DeleteByName(name)
}

func (uc *DefaultCountryUsecase) GetStatus() (*domain.RefreshStatus, error) {
	return uc.CountryRepo.GetStatus()
}
