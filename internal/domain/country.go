package domain

import (
	"context"
	"time"
)

// Country is a row of the aggregated reference data. Name is the unique key.
// CurrencyCode and ExchangeRate are nil when the upstream data has no usable
// currency for the country; EstimatedGDP is 0 exactly in that case or when
// population is 0.
type Country struct {
	Name            string
	Capital         string
	Region          string
	Population      int64
	CurrencyCode    *string
	ExchangeRate    *float64
	EstimatedGDP    int64
	FlagURL         string
	LastRefreshedAt time.Time
}

// RefreshStatus is the singleton consistency record updated together with the
// country rows on every successful refresh.
type RefreshStatus struct {
	TotalCountries  int64
	LastRefreshedAt *time.Time
}

// RawCountry is the wire shape of the country directory API.
type RawCountry struct {
	Name       string        `json:"name"`
	Capital    string        `json:"capital"`
	Region     string        `json:"region"`
	Population int64         `json:"population"`
	Flag       string        `json:"flag"`
	Currencies []RawCurrency `json:"currencies"`
}

type RawCurrency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// RateTable is the exchange-rate API result: target currency per 1 unit of Base.
type RateTable struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

type CountryFilter struct {
	Region        string
	CurrencyCode  string
	SortByGDPDesc bool
}

// RefreshResult is what a completed refresh cycle reports back to the caller.
type RefreshResult struct {
	CycleID        string
	TotalCountries int64
	RefreshedAt    time.Time
}

type CountrySource interface {
	FetchCountries(ctx context.Context) ([]RawCountry, error)
}

type RateSource interface {
	FetchRates(ctx context.Context) (*RateTable, error)
}

type CountryRepository interface {
	// SaveRefresh upserts all records and updates the status row in a single
	// transaction. Either both reflect the new cycle or neither does.
	SaveRefresh(countries []*Country, refreshedAt time.Time) (int64, error)
	List(filter CountryFilter) ([]*Country, error)
	GetByName(name string) (*Country, error)
	DeleteByName(name string) error
	GetStatus() (*RefreshStatus, error)
	TopByGDP(limit int) ([]*Country, error)
}

type SummaryRenderer interface {
	Render(top []*Country, totalCountries int64, refreshedAt time.Time) error
}

// RefreshEventPublisher publishes a notification after a successful cycle.
// Implementations must not fail the cycle: errors are the caller's to log.
type RefreshEventPublisher interface {
	PublishRefresh(ctx context.Context, result RefreshResult) error
}

type RefreshUsecase interface {
	Refresh(ctx context.Context) (*RefreshResult, error)
}

type CountryUsecase interface {
	ListCountries(filter CountryFilter) ([]*Country, error)
	GetCountryByName(name string) (*Country, error)
	DeleteCountryByName(name string) error
	GetStatus() (*RefreshStatus, error)
}
