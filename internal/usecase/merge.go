package usecase

import (
	"math"
	"math/rand"

	"github.com/LavaJover/shvark-country-service/internal/domain"
)

// GDPFactor supplies the synthetic weighting used in the estimated GDP figure.
// The default draws uniformly from [1000, 2000) per country. This is a
// placeholder, not a real economic formula; swap it out to plug in real data
// without touching the merge or persistence code.
type GDPFactor func() float64

const (
	gdpFactorMin = 1000.0
	gdpFactorMax = 2000.0
)

func defaultGDPFactor() float64 {
	return gdpFactorMin + rand.Float64()*(gdpFactorMax-gdpFactorMin)
}

// mergeCountries joins the country directory with the rate table by currency
// code. A country with no currency or no matching rate is kept with
// EstimatedGDP 0; nothing is ever dropped. Output order follows the input but
// callers must not rely on it.
func mergeCountries(raw []domain.RawCountry, rates map[string]float64, factor GDPFactor) []*domain.Country {
	countries := make([]*domain.Country, 0, len(raw))
	for _, rc := range raw {
		country := &domain.Country{
			Name:       rc.Name,
			Capital:    rc.Capital,
			Region:     rc.Region,
			Population: rc.Population,
			FlagURL:    rc.Flag,
		}

		if code, ok := primaryCurrency(rc); ok {
			country.CurrencyCode = &code
			if rate, found := rates[code]; found {
				rateCopy := rate
				country.ExchangeRate = &rateCopy
				if rate != 0 && rc.Population > 0 {
					country.EstimatedGDP = int64(math.Round(float64(rc.Population) * factor() / rate))
				}
			}
		}

		countries = append(countries, country)
	}
	return countries
}

// primaryCurrency picks the first listed currency. Multi-currency countries
// collapse to one code in this model.
func primaryCurrency(rc domain.RawCountry) (string, bool) {
	if len(rc.Currencies) == 0 || rc.Currencies[0].Code == "" {
		return "", false
	}
	return rc.Currencies[0].Code, true
}
