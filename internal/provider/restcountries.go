package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/jask/atlas/internal/logging"
)

// DefaultCountriesBaseURL is the public REST Countries v3.1 endpoint.
const DefaultCountriesBaseURL = "https://restcountries.com/v3.1"

const (
	listFields   = "name,capital,region,subregion,population,flags,languages,timezones,latlng,cca2"
	detailFields = "name,capital,region,subregion,population,area,flags,languages,currencies,timezones,latlng,cca2,cca3"
)

// RestCountries is a CountrySource backed by the REST Countries HTTP API.
// Successful by-name lookups are remembered for the lifetime of the process.
type RestCountries struct {
	baseURL string
	http    *http.Client
	lookups *cache.Cache
	log     logrus.FieldLogger
}

// RestCountriesOption customizes a RestCountries client.
type RestCountriesOption func(*RestCountries)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) RestCountriesOption {
	return func(r *RestCountries) {
		if c != nil {
			r.http = c
		}
	}
}

// WithLookupTTL sets how long a by-name lookup is remembered.
func WithLookupTTL(ttl time.Duration) RestCountriesOption {
	return func(r *RestCountries) {
		if ttl > 0 {
			r.lookups = cache.New(ttl, 2*ttl)
		}
	}
}

// WithLogger sets the logger used for degraded lookups.
func WithLogger(l logrus.FieldLogger) RestCountriesOption {
	return func(r *RestCountries) {
		if l != nil {
			r.log = l
		}
	}
}

func NewRestCountries(baseURL string, opts ...RestCountriesOption) *RestCountries {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultCountriesBaseURL
	}
	r := &RestCountries{
		baseURL: base,
		http:    &http.Client{Timeout: 10 * time.Second},
		lookups: cache.New(30*time.Minute, time.Hour),
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListCountries fetches every country with the list projection.
func (r *RestCountries) ListCountries(ctx context.Context) ([]Country, error) {
	var out []Country
	if err := r.getJSON(ctx, r.baseURL+"/all", listFields, &out); err != nil {
		r.log.WithError(err).Error("list countries failed")
		return nil, &NetworkError{Op: "list countries", Err: err}
	}
	return out, nil
}

// FindCountryByName looks name up on the by-name endpoint. Any failure,
// 404 included, is logged and reported as no match.
func (r *RestCountries) FindCountryByName(ctx context.Context, name string) (*Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(name)
	if hit, ok := r.lookups.Get(key); ok {
		c := hit.(Country)
		return &c, nil
	}

	var out []Country
	endpoint := r.baseURL + "/name/" + url.PathEscape(name)
	if err := r.getJSON(ctx, endpoint, detailFields, &out); err != nil {
		r.log.WithError(err).WithField("query", name).Warn("country lookup failed")
		return nil, nil
	}
	match := bestMatch(name, out)
	if match == nil {
		return nil, nil
	}
	r.lookups.Set(key, *match, cache.DefaultExpiration)
	return match, nil
}

func (r *RestCountries) getJSON(ctx context.Context, endpoint, fields string, dst any) error {
	u := endpoint + "?fields=" + fields
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, URL: endpoint}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// bestMatch prefers an exact (case-insensitive) common or official name, then
// the closest common name among prefix matches, then the first result.
func bestMatch(query string, candidates []Country) *Country {
	if len(candidates) == 0 {
		return nil
	}
	for i := range candidates {
		c := candidates[i]
		if strings.EqualFold(c.Name.Common, query) || strings.EqualFold(c.Name.Official, query) {
			return &c
		}
	}

	q := strings.ToLower(query)
	best, bestDist := -1, 0
	for i, c := range candidates {
		common := strings.ToLower(c.Name.Common)
		if !strings.HasPrefix(common, q) {
			continue
		}
		d := levenshtein.ComputeDistance(q, common)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		best = 0
	}
	c := candidates[best]
	return &c
}
