package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const countriesJSON = `[
  {"name":{"common":"Germany","official":"Federal Republic of Germany"},"cca2":"DE","capital":["Berlin"],"region":"Europe","subregion":"Western Europe","population":83240525,"flags":{"png":"https://flagcdn.com/w320/de.png","svg":"https://flagcdn.com/de.svg"},"languages":{"deu":"German"},"timezones":["UTC+01:00"],"latlng":[51.0,9.0]},
  {"name":{"common":"Georgia","official":"Georgia"},"cca2":"GE","capital":["Tbilisi"],"region":"Asia","subregion":"Western Asia","population":3714000,"flags":{"png":"https://flagcdn.com/w320/ge.png","svg":"https://flagcdn.com/ge.svg"},"languages":{"kat":"Georgian"},"timezones":["UTC+04:00"],"latlng":[42.0,43.5]}
]`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestListCountriesDecodesProjection(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/all", r.URL.Path)
		require.Equal(t, listFields, r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, countriesJSON)
	})

	client := NewRestCountries(srv.URL + "/")
	countries, err := client.ListCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 2)

	de := countries[0]
	require.Equal(t, "Germany", de.Name.Common)
	require.Equal(t, "DE", de.CCA2)
	require.Equal(t, int64(83240525), de.Population)
	require.Equal(t, "German", de.Languages["deu"])
	capital, ok := de.PrimaryCapital()
	require.True(t, ok)
	require.Equal(t, "Berlin", capital)
	lat, lng, ok := de.Centroid()
	require.True(t, ok)
	require.Equal(t, 51.0, lat)
	require.Equal(t, 9.0, lng)
}

func TestListCountriesNonSuccessIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := NewRestCountries(srv.URL).ListCountries(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	require.Contains(t, err.Error(), "check your internet connection")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestListCountriesTransportFailureIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRestCountries(url).ListCountries(context.Background())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestListCountriesMalformedBodyIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not":"an array"`)
	})

	_, err := NewRestCountries(srv.URL).ListCountries(context.Background())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestFindCountryByNameNotFoundIsAbsent(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":404,"message":"Not Found"}`, http.StatusNotFound)
	})

	c, err := NewRestCountries(srv.URL).FindCountryByName(context.Background(), "Atlantis")
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestFindCountryByNameTransportFailureIsAbsent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewRestCountries(url).FindCountryByName(context.Background(), "Germany")
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestFindCountryByNameEmptySkipsRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	c, err := NewRestCountries(srv.URL).FindCountryByName(context.Background(), "   ")
	require.NoError(t, err)
	require.Nil(t, c)
	require.Zero(t, hits.Load())
}

func TestFindCountryByNameUsesDetailProjectionAndEscapesName(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/name/United States", r.URL.Path)
		require.Equal(t, detailFields, r.URL.Query().Get("fields"))
		fmt.Fprint(w, `[{"name":{"common":"United States","official":"United States of America"},"cca2":"US","cca3":"USA","area":9372610,"currencies":{"USD":{"name":"United States dollar","symbol":"$"}},"latlng":[38,-97]}]`)
	})

	c, err := NewRestCountries(srv.URL).FindCountryByName(context.Background(), "United States")
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, "USA", c.CCA3)
	require.Equal(t, 9372610.0, c.Area)
	require.Equal(t, "$", c.Currencies["USD"].Symbol)
}

func TestFindCountryByNameMemoizesHits(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, countriesJSON)
	})

	client := NewRestCountries(srv.URL, WithLookupTTL(time.Minute))
	for _, q := range []string{"Germany", "germany", " GERMANY "} {
		c, err := client.FindCountryByName(context.Background(), q)
		require.NoError(t, err)
		require.Equal(t, "DE", c.CCA2)
	}
	require.Equal(t, int32(1), hits.Load())
}

func TestFindCountryByNameDoesNotMemoizeMisses(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	client := NewRestCountries(srv.URL)
	for i := 0; i < 2; i++ {
		c, err := client.FindCountryByName(context.Background(), "Atlantis")
		require.NoError(t, err)
		require.Nil(t, c)
	}
	require.Equal(t, int32(2), hits.Load())
}

func TestBestMatch(t *testing.T) {
	t.Parallel()

	mk := func(common, official string) Country {
		return Country{Name: CountryName{Common: common, Official: official}}
	}
	tests := []struct {
		name       string
		query      string
		candidates []Country
		want       string
	}{
		{
			name:       "exact common name wins over earlier entries",
			query:      "india",
			candidates: []Country{mk("British Indian Ocean Territory", "British Indian Ocean Territory"), mk("India", "Republic of India")},
			want:       "India",
		},
		{
			name:       "exact official name",
			query:      "hellenic republic",
			candidates: []Country{mk("Cyprus", "Republic of Cyprus"), mk("Greece", "Hellenic Republic")},
			want:       "Greece",
		},
		{
			name:       "closest prefix match",
			query:      "united",
			candidates: []Country{mk("United States Minor Outlying Islands", ""), mk("United Kingdom", ""), mk("United States", "")},
			want:       "United States",
		},
		{
			name:       "prefix beats earlier substring match",
			query:      "ger",
			candidates: []Country{mk("Algeria", ""), mk("Germany", ""), mk("Niger", "")},
			want:       "Germany",
		},
		{
			name:       "prefix match later in the results",
			query:      "kingdom",
			candidates: []Country{mk("United Kingdom", ""), mk("Kingdom of Nowhere Else", "x")},
			want:       "Kingdom of Nowhere Else",
		},
		{
			name:       "first result when nothing is a prefix",
			query:      "land",
			candidates: []Country{mk("Finland", ""), mk("Iceland", "")},
			want:       "Finland",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bestMatch(tt.query, tt.candidates)
			require.NotNil(t, got)
			require.Equal(t, tt.want, got.Name.Common)
		})
	}

	require.Nil(t, bestMatch("anything", nil))
}

func TestStatusErrorMessage(t *testing.T) {
	t.Parallel()

	err := &StatusError{Code: http.StatusNotFound, URL: "https://example.test/name/x"}
	require.True(t, strings.HasSuffix(err.Error(), "404 Not Found"))
}
