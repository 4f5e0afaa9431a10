package provider

// CountryName mirrors the REST Countries name object.
type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Flags holds flag image URLs.
type Flags struct {
	PNG string `json:"png"`
	SVG string `json:"svg"`
	Alt string `json:"alt,omitempty"`
}

// Currency is one entry of a country's currency map.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Country is a country as returned by the list or by-name endpoints. The list
// projection leaves Area, Currencies and CCA3 empty.
type Country struct {
	Name       CountryName         `json:"name"`
	CCA2       string              `json:"cca2"`
	CCA3       string              `json:"cca3,omitempty"`
	Capital    []string            `json:"capital,omitempty"`
	Region     string              `json:"region"`
	Subregion  string              `json:"subregion,omitempty"`
	Population int64               `json:"population"`
	Area       float64             `json:"area,omitempty"`
	Flags      Flags               `json:"flags"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	Timezones  []string            `json:"timezones"`
	LatLng     []float64           `json:"latlng"`
}

// PrimaryCapital returns the first listed capital.
func (c Country) PrimaryCapital() (string, bool) {
	if len(c.Capital) == 0 || c.Capital[0] == "" {
		return "", false
	}
	return c.Capital[0], true
}

// Centroid returns the country's geographic centre. ok is false when the
// provider sent no coordinates.
func (c Country) Centroid() (lat, lng float64, ok bool) {
	if len(c.LatLng) < 2 {
		return 0, 0, false
	}
	return c.LatLng[0], c.LatLng[1], true
}

// CityData describes the capital city of a selected country. Latitude and
// Longitude are placeholders until the caller copies the country centroid in.
type CityData struct {
	ID              string
	Name            string
	Country         string
	CountryCode     string
	Region          string
	Latitude        float64
	Longitude       float64
	Population      int64
	Timezone        string
	ElevationMeters *int
}

// VisaCategory is the kind of entry rule for a destination.
type VisaCategory string

const (
	VisaFree      VisaCategory = "visa-free"
	VisaRequired  VisaCategory = "visa-required"
	VisaOnArrival VisaCategory = "visa-on-arrival"
	EVisa         VisaCategory = "e-visa"
)

// Valid reports whether c is one of the known categories.
func (c VisaCategory) Valid() bool {
	switch c {
	case VisaFree, VisaRequired, VisaOnArrival, EVisa:
		return true
	}
	return false
}

// VisaRequirement is the rule for travelling to Country on the selected
// country's passport.
type VisaRequirement struct {
	Country     string
	Requirement VisaCategory
	DaysAllowed *int
	Notes       string
}
