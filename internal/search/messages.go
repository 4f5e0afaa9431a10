package search

import "github.com/jask/atlas/internal/provider"

// Results of provider calls, delivered back to Handle on the update loop.
// gen ties a result to the action that started it.

type countriesLoadedMsg struct {
	gen       uint64
	countries []provider.Country
	err       error
}

type countryFoundMsg struct {
	gen     uint64
	country *provider.Country
	err     error
}

type cityLoadedMsg struct {
	gen     uint64
	country provider.Country
	city    *provider.CityData
	err     error
}

type visasLoadedMsg struct {
	gen   uint64
	visas []provider.VisaRequirement
	err   error
}
