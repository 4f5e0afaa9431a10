// Package store holds the session's application state and notifies
// subscribers after every change.
package store

import (
	"sync"

	"github.com/jask/atlas/internal/provider"
)

// State is a point-in-time copy of the store. Slices and pointers are shared
// with the store and must be treated as read-only.
type State struct {
	SearchQuery      string
	Countries        []provider.Country
	SelectedCountry  *provider.Country
	CityData         *provider.CityData
	VisaRequirements []provider.VisaRequirement
	IsLoading        bool
	APIError         string
}

// Observer receives the state as it stands right after a setter ran.
type Observer func(State)

type subscription struct {
	id int
	fn Observer
}

// Store is the single source of truth for the dashboard. Setters assign and
// notify; they never validate.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   []subscription
	nextID int
}

func New() *Store {
	return &Store{}
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Observer) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) SetSearchQuery(q string) {
	s.update(func(st *State) { st.SearchQuery = q })
}

func (s *Store) SetCountries(countries []provider.Country) {
	s.update(func(st *State) { st.Countries = countries })
}

func (s *Store) SetSelectedCountry(c *provider.Country) {
	s.update(func(st *State) { st.SelectedCountry = c })
}

func (s *Store) SetCityData(c *provider.CityData) {
	s.update(func(st *State) { st.CityData = c })
}

func (s *Store) SetVisaRequirements(reqs []provider.VisaRequirement) {
	s.update(func(st *State) { st.VisaRequirements = reqs })
}

func (s *Store) SetIsLoading(loading bool) {
	s.update(func(st *State) { st.IsLoading = loading })
}

// SetAPIError records a user-facing load error; "" clears it.
func (s *Store) SetAPIError(msg string) {
	s.update(func(st *State) { st.APIError = msg })
}

// update applies fn under the lock, then calls every observer in
// subscription order with the resulting snapshot. Observers run outside the
// lock so they may read the store or call setters themselves.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}
