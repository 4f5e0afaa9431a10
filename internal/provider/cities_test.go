package provider

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyntheticCitiesDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a := NewSyntheticCities(rand.New(rand.NewSource(42)))
	b := NewSyntheticCities(rand.New(rand.NewSource(42)))

	ca, err := a.CapitalCityData(context.Background(), "Berlin", "de")
	require.NoError(t, err)
	cb, err := b.CapitalCityData(context.Background(), "Berlin", "DE")
	require.NoError(t, err)

	require.Equal(t, ca, cb)
	require.Equal(t, "Berlin", ca.Name)
	require.Equal(t, "DE", ca.CountryCode)
	require.Equal(t, "DE", ca.Country)
	require.Equal(t, "Unknown Region", ca.Region)
	require.Equal(t, "UTC", ca.Timezone)
	require.Zero(t, ca.Latitude)
	require.Zero(t, ca.Longitude)
}

func TestSyntheticCitiesRanges(t *testing.T) {
	t.Parallel()

	src := NewSyntheticCities(rand.New(rand.NewSource(7)))
	for i := 0; i < 200; i++ {
		c, err := src.CapitalCityData(context.Background(), "Paris", "FR")
		require.NoError(t, err)
		require.GreaterOrEqual(t, c.Population, int64(100_000))
		require.Less(t, c.Population, int64(10_100_000))
		require.NotNil(t, c.ElevationMeters)
		require.GreaterOrEqual(t, *c.ElevationMeters, 10)
		require.Less(t, *c.ElevationMeters, 2010)
	}
}

func TestSyntheticCitiesStableID(t *testing.T) {
	t.Parallel()

	src := NewSyntheticCities(nil)
	x, err := src.CapitalCityData(context.Background(), "Tokyo", "JP")
	require.NoError(t, err)
	y, err := src.CapitalCityData(context.Background(), "tokyo", "jp")
	require.NoError(t, err)
	z, err := src.CapitalCityData(context.Background(), "Kyoto", "JP")
	require.NoError(t, err)

	require.Equal(t, x.ID, y.ID)
	require.NotEqual(t, x.ID, z.ID)
}

func TestSyntheticCitiesEdgeInputs(t *testing.T) {
	t.Parallel()

	src := NewSyntheticCities(nil)

	c, err := src.CapitalCityData(context.Background(), "", "DE")
	require.NoError(t, err)
	require.Nil(t, c)

	c, err = src.CapitalCityData(context.Background(), "Nowhere", "")
	require.NoError(t, err)
	require.Equal(t, "Unknown", c.Country)
	require.Equal(t, "XX", c.CountryCode)
}
