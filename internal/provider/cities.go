package provider

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SyntheticCities fabricates capital city details until a real city source
// is wired. Coordinates are left at 0,0 and must be replaced by the caller.
type SyntheticCities struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticCities returns a source drawing from rng, or from a time-seeded
// generator when rng is nil.
func NewSyntheticCities(rng *rand.Rand) *SyntheticCities {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SyntheticCities{rng: rng}
}

func (s *SyntheticCities) CapitalCityData(ctx context.Context, cityName, countryCode string) (*CityData, error) {
	name := strings.TrimSpace(cityName)
	if name == "" {
		return nil, nil
	}
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	country := code
	if code == "" {
		country, code = "Unknown", "XX"
	}

	s.mu.Lock()
	population := s.rng.Int63n(10_000_000) + 100_000
	elevation := s.rng.Intn(2000) + 10
	s.mu.Unlock()

	return &CityData{
		ID:              cityID(code, name),
		Name:            name,
		Country:         country,
		CountryCode:     code,
		Region:          "Unknown Region",
		Population:      population,
		Timezone:        "UTC",
		ElevationMeters: &elevation,
	}, nil
}

func cityID(code, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("city:"+code+":"+strings.ToLower(name))).String()
}
