package provider

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/jask/atlas/internal/config"
)

// CountrySource loads countries from a remote catalogue.
type CountrySource interface {
	// ListCountries returns the full catalogue. Failures are *NetworkError.
	ListCountries(ctx context.Context) ([]Country, error)
	// FindCountryByName returns the best match for name, or nil when nothing
	// matches. Lookup failures are reported as nil, nil.
	FindCountryByName(ctx context.Context, name string) (*Country, error)
}

// CityDataSource describes capital cities.
type CityDataSource interface {
	CapitalCityData(ctx context.Context, cityName, countryCode string) (*CityData, error)
}

// VisaDataSource answers visa questions for a passport-issuing country.
type VisaDataSource interface {
	VisaRequirements(ctx context.Context, countryCode string) ([]VisaRequirement, error)
}

// Provider bundles the sources the dashboard depends on.
type Provider struct {
	Countries CountrySource
	Cities    CityDataSource
	Visas     VisaDataSource
}

// New builds the production bundle from cfg: REST Countries for the
// catalogue, synthetic capitals, and either the built-in visa table or the
// one at cfg.Visa.TablePath.
func New(cfg config.Config, log logrus.FieldLogger) (Provider, error) {
	visas := NewCuratedVisas()
	if cfg.Visa.TablePath != "" {
		loaded, err := LoadVisaTable(cfg.Visa.TablePath)
		if err != nil {
			return Provider{}, err
		}
		visas = loaded
	}
	return Provider{
		Countries: NewRestCountries(cfg.API.CountriesBaseURL,
			WithHTTPClient(&http.Client{Timeout: cfg.HTTP.Timeout}),
			WithLookupTTL(cfg.HTTP.LookupCacheTTL),
			WithLogger(log),
		),
		Cities: NewSyntheticCities(nil),
		Visas:  visas,
	}, nil
}
