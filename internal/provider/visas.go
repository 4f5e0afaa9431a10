package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// CuratedVisas answers from a fixed table keyed by ISO alpha-2 code. Codes
// without an entry get the fallback list.
type CuratedVisas struct {
	table    map[string][]VisaRequirement
	fallback []VisaRequirement
}

func days(n int) *int { return &n }

// NewCuratedVisas returns the built-in table.
func NewCuratedVisas() *CuratedVisas {
	return &CuratedVisas{
		table: map[string][]VisaRequirement{
			"US": {
				{Country: "Canada", Requirement: VisaFree, DaysAllowed: days(90)},
				{Country: "United Kingdom", Requirement: VisaFree, DaysAllowed: days(90)},
				{Country: "Germany", Requirement: VisaFree, DaysAllowed: days(90)},
				{Country: "Japan", Requirement: VisaFree, DaysAllowed: days(90)},
				{Country: "China", Requirement: VisaRequired, Notes: "Tourist visa required"},
				{Country: "India", Requirement: EVisa, DaysAllowed: days(30)},
			},
			"GB": {
				{Country: "United States", Requirement: VisaFree, DaysAllowed: days(90)},
				{Country: "Canada", Requirement: VisaFree, DaysAllowed: days(180)},
				{Country: "Australia", Requirement: VisaRequired, Notes: "ETA required"},
				{Country: "Germany", Requirement: VisaFree, DaysAllowed: days(90)},
				{Country: "Japan", Requirement: VisaFree, DaysAllowed: days(90)},
				{Country: "Thailand", Requirement: VisaFree, DaysAllowed: days(30)},
			},
			"DE": {
				{Country: "United States", Requirement: VisaFree, DaysAllowed: days(90)},
				{Country: "United Kingdom", Requirement: VisaFree, DaysAllowed: days(90)},
				{Country: "Canada", Requirement: VisaFree, DaysAllowed: days(180)},
				{Country: "Japan", Requirement: VisaFree, DaysAllowed: days(90)},
				{Country: "Australia", Requirement: VisaRequired, Notes: "ETA required"},
				{Country: "Brazil", Requirement: VisaFree, DaysAllowed: days(90)},
			},
		},
		fallback: defaultFallback(),
	}
}

func defaultFallback() []VisaRequirement {
	return []VisaRequirement{
		{Country: "Demo Country", Requirement: VisaFree, DaysAllowed: days(30), Notes: "Demo visa data for all other countries."},
	}
}

// VisaRequirements returns a deep copy of the curated list for countryCode.
func (c *CuratedVisas) VisaRequirements(ctx context.Context, countryCode string) ([]VisaRequirement, error) {
	rows, ok := c.table[strings.ToUpper(strings.TrimSpace(countryCode))]
	if !ok || len(rows) == 0 {
		rows = c.fallback
	}
	return cloneRows(rows), nil
}

func cloneRows(rows []VisaRequirement) []VisaRequirement {
	out := make([]VisaRequirement, len(rows))
	for i, r := range rows {
		if r.DaysAllowed != nil {
			r.DaysAllowed = days(*r.DaysAllowed)
		}
		out[i] = r
	}
	return out
}

// visaFile is the on-disk layout of a visa table:
//
//	[[passport]]
//	code = "DE"
//	  [[passport.destination]]
//	  country = "Japan"
//	  requirement = "visa-free"
//	  days_allowed = 90
type visaFile struct {
	Passport []struct {
		Code        string    `toml:"code"`
		Destination []visaRow `toml:"destination"`
	} `toml:"passport"`
	Fallback []visaRow `toml:"fallback"`
}

type visaRow struct {
	Country     string `toml:"country"`
	Requirement string `toml:"requirement"`
	DaysAllowed int    `toml:"days_allowed"`
	Notes       string `toml:"notes"`
}

// LoadVisaTable reads a TOML visa table from path. A file without a fallback
// section keeps the built-in fallback.
func LoadVisaTable(path string) (*CuratedVisas, error) {
	var f visaFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("parse visa table %s: %w", path, err)
	}
	out := &CuratedVisas{table: make(map[string][]VisaRequirement, len(f.Passport)), fallback: defaultFallback()}
	for i, p := range f.Passport {
		code := strings.ToUpper(strings.TrimSpace(p.Code))
		if code == "" {
			return nil, fmt.Errorf("passport[%d]: code is required", i)
		}
		rows, err := convertRows(p.Destination)
		if err != nil {
			return nil, fmt.Errorf("passport %s: %w", code, err)
		}
		out.table[code] = rows
	}
	if len(f.Fallback) > 0 {
		rows, err := convertRows(f.Fallback)
		if err != nil {
			return nil, fmt.Errorf("fallback: %w", err)
		}
		out.fallback = rows
	}
	return out, nil
}

func convertRows(in []visaRow) ([]VisaRequirement, error) {
	out := make([]VisaRequirement, 0, len(in))
	for i, r := range in {
		cat := VisaCategory(strings.ToLower(strings.TrimSpace(r.Requirement)))
		if !cat.Valid() {
			return nil, fmt.Errorf("destination[%d] %q: unknown requirement %q", i, r.Country, r.Requirement)
		}
		if strings.TrimSpace(r.Country) == "" {
			return nil, fmt.Errorf("destination[%d]: country is required", i)
		}
		if r.DaysAllowed < 0 {
			return nil, fmt.Errorf("destination[%d] %q: days_allowed must be positive", i, r.Country)
		}
		row := VisaRequirement{Country: strings.TrimSpace(r.Country), Requirement: cat, Notes: r.Notes}
		if r.DaysAllowed > 0 {
			row.DaysAllowed = days(r.DaysAllowed)
		}
		out = append(out, row)
	}
	return out, nil
}
