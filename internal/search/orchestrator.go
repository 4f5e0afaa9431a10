// Package search turns user intent (typing, picking a suggestion, submitting,
// retrying) into store mutations and provider calls.
//
// Every method is meant to be called from the Bubble Tea update loop. Remote
// calls run inside the returned tea.Cmds and come back through Handle, so the
// store is only ever written from one goroutine at a time.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/atlas/internal/logging"
	"github.com/jask/atlas/internal/provider"
	"github.com/jask/atlas/internal/store"
)

// DefaultMaxSuggestions caps the dropdown.
const DefaultMaxSuggestions = 8

var errNoCountrySource = errors.New("no country source configured")

// Phase is the orchestrator's externally visible state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSuggesting
	PhaseLoading
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseSuggesting:
		return "suggesting"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

type Options struct {
	MaxSuggestions int
	Logger         logrus.FieldLogger
}

// Orchestrator owns the local filter and the selection cascade.
type Orchestrator struct {
	ctx   context.Context
	store *store.Store
	src   provider.Provider
	limit int
	log   logrus.FieldLogger

	filtered []provider.Country
	shown    bool
	cursor   int

	// loadGen tags catalogue loads; gen tags lookups and cascades. Results
	// carrying an older tag are dropped.
	loadGen   uint64
	gen       uint64
	cancel    context.CancelFunc
	cascadeID string
	pending   int
}

func New(ctx context.Context, st *store.Store, src provider.Provider, opts Options) *Orchestrator {
	if ctx == nil {
		ctx = context.Background()
	}
	limit := opts.MaxSuggestions
	if limit <= 0 {
		limit = DefaultMaxSuggestions
	}
	var log logrus.FieldLogger = logging.Discard()
	if opts.Logger != nil {
		log = opts.Logger
	}
	o := &Orchestrator{ctx: ctx, store: st, src: src, limit: limit, log: log, cursor: -1}
	o.filtered = st.Snapshot().Countries
	return o
}

// Init loads the catalogue unless it is already cached.
func (o *Orchestrator) Init() tea.Cmd {
	if len(o.store.Snapshot().Countries) > 0 {
		return nil
	}
	return o.load()
}

// Retry reloads the catalogue after a failed load.
func (o *Orchestrator) Retry() tea.Cmd {
	return o.load()
}

func (o *Orchestrator) load() tea.Cmd {
	o.store.SetAPIError("")
	o.loadGen++
	gen := o.loadGen
	src, ctx := o.src.Countries, o.ctx
	return guard(func() tea.Msg {
		if src == nil {
			return countriesLoadedMsg{gen: gen, err: errNoCountrySource}
		}
		countries, err := src.ListCountries(ctx)
		return countriesLoadedMsg{gen: gen, countries: countries, err: err}
	}, func(err error) tea.Msg {
		return countriesLoadedMsg{gen: gen, err: err}
	})
}

// SetQuery records the typed query and refilters the cached catalogue.
func (o *Orchestrator) SetQuery(q string) {
	o.store.SetSearchQuery(q)
	o.refilter(q)
}

// refilter keeps countries whose common name contains q, case-insensitively,
// in catalogue order. An empty q restores the whole list and hides the
// dropdown.
func (o *Orchestrator) refilter(q string) {
	countries := o.store.Snapshot().Countries
	o.cursor = -1
	if q == "" {
		o.filtered = countries
		o.shown = false
		return
	}
	needle := strings.ToLower(q)
	out := make([]provider.Country, 0, len(countries))
	for _, c := range countries {
		if strings.Contains(strings.ToLower(c.Name.Common), needle) {
			out = append(out, c)
		}
	}
	o.filtered = out
	o.shown = true
}

// Filtered returns the full filter result, uncapped.
func (o *Orchestrator) Filtered() []provider.Country {
	return append([]provider.Country(nil), o.filtered...)
}

// Suggestions returns the capped dropdown rows, or nil while it is hidden.
func (o *Orchestrator) Suggestions() []provider.Country {
	if !o.shown {
		return nil
	}
	n := min(len(o.filtered), o.limit)
	return append([]provider.Country(nil), o.filtered[:n]...)
}

func (o *Orchestrator) SuggestionsVisible() bool {
	return o.shown && len(o.filtered) > 0
}

// Focus shows the dropdown, as focusing the input does.
func (o *Orchestrator) Focus() {
	o.shown = true
}

// Dismiss hides the dropdown.
func (o *Orchestrator) Dismiss() {
	o.shown = false
	o.cursor = -1
}

// MoveCursor moves the highlight by delta, wrapping around the visible rows.
func (o *Orchestrator) MoveCursor(delta int) {
	n := len(o.Suggestions())
	if n == 0 {
		o.cursor = -1
		return
	}
	if o.cursor < 0 {
		if delta > 0 {
			o.cursor = 0
		} else {
			o.cursor = n - 1
		}
		return
	}
	o.cursor = ((o.cursor+delta)%n + n) % n
}

// Cursor is the highlighted row index, -1 for none.
func (o *Orchestrator) Cursor() int {
	if o.cursor >= len(o.Suggestions()) {
		return -1
	}
	return o.cursor
}

// Highlighted returns the country under the cursor.
func (o *Orchestrator) Highlighted() (provider.Country, bool) {
	rows := o.Suggestions()
	if o.cursor < 0 || o.cursor >= len(rows) {
		return provider.Country{}, false
	}
	return rows[o.cursor], true
}

// Phase derives the state from the store and the dropdown.
func (o *Orchestrator) Phase() Phase {
	st := o.store.Snapshot()
	switch {
	case st.IsLoading:
		return PhaseLoading
	case st.APIError != "":
		return PhaseError
	case o.SuggestionsVisible():
		return PhaseSuggesting
	default:
		return PhaseIdle
	}
}

// begin supersedes whatever lookup or cascade is in flight.
func (o *Orchestrator) begin() (context.Context, uint64, logrus.FieldLogger) {
	o.gen++
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(o.ctx)
	o.cancel = cancel
	o.cascadeID = uuid.NewString()
	o.pending = 0
	return ctx, o.gen, o.log.WithFields(logrus.Fields{"cascade": o.cascadeID, "generation": o.gen})
}

// Select starts the selection cascade for c. Dependent data is cleared before
// the new country is published so no snapshot pairs it with the previous
// country's city or visas.
func (o *Orchestrator) Select(c provider.Country) tea.Cmd {
	ctx, gen, log := o.begin()
	country := c
	log = log.WithField("country", country.Name.Common)
	log.Debug("selection cascade started")

	o.store.SetIsLoading(true)
	o.store.SetCityData(nil)
	o.store.SetVisaRequirements(nil)
	o.store.SetSelectedCountry(&country)
	o.store.SetSearchQuery(country.Name.Common)
	o.refilter(country.Name.Common)
	o.Dismiss()

	var cmds []tea.Cmd
	if capital, ok := country.PrimaryCapital(); ok && o.src.Cities != nil {
		cmds = append(cmds, o.fetchCity(ctx, gen, country, capital))
	}
	if o.src.Visas != nil {
		cmds = append(cmds, o.fetchVisas(ctx, gen, country.CCA2))
	}
	o.pending = len(cmds)
	if o.pending == 0 {
		o.finish(log)
		return nil
	}
	return tea.Batch(cmds...)
}

func (o *Orchestrator) fetchCity(ctx context.Context, gen uint64, country provider.Country, capital string) tea.Cmd {
	src := o.src.Cities
	return guard(func() tea.Msg {
		city, err := src.CapitalCityData(ctx, capital, country.CCA2)
		return cityLoadedMsg{gen: gen, country: country, city: city, err: err}
	}, func(err error) tea.Msg {
		return cityLoadedMsg{gen: gen, country: country, err: err}
	})
}

func (o *Orchestrator) fetchVisas(ctx context.Context, gen uint64, code string) tea.Cmd {
	src := o.src.Visas
	return guard(func() tea.Msg {
		visas, err := src.VisaRequirements(ctx, code)
		return visasLoadedMsg{gen: gen, visas: visas, err: err}
	}, func(err error) tea.Msg {
		return visasLoadedMsg{gen: gen, err: err}
	})
}

// Submit looks the typed query up by name. A match runs the selection
// cascade; no match leaves the current selection alone.
func (o *Orchestrator) Submit() tea.Cmd {
	q := strings.TrimSpace(o.store.Snapshot().SearchQuery)
	if q == "" {
		return nil
	}
	ctx, gen, log := o.begin()
	log.WithField("query", q).Debug("lookup started")
	o.Dismiss()
	o.store.SetIsLoading(true)

	src := o.src.Countries
	return guard(func() tea.Msg {
		if src == nil {
			return countryFoundMsg{gen: gen, err: errNoCountrySource}
		}
		c, err := src.FindCountryByName(ctx, q)
		return countryFoundMsg{gen: gen, country: c, err: err}
	}, func(err error) tea.Msg {
		return countryFoundMsg{gen: gen, err: err}
	})
}

// Handle applies a provider result. ok is false for messages the
// orchestrator does not own.
func (o *Orchestrator) Handle(msg tea.Msg) (cmd tea.Cmd, ok bool) {
	switch msg := msg.(type) {
	case countriesLoadedMsg:
		o.onCountries(msg)
		return nil, true
	case countryFoundMsg:
		return o.onCountryFound(msg), true
	case cityLoadedMsg:
		o.onCity(msg)
		return nil, true
	case visasLoadedMsg:
		o.onVisas(msg)
		return nil, true
	}
	return nil, false
}

func (o *Orchestrator) onCountries(msg countriesLoadedMsg) {
	if msg.gen != o.loadGen {
		o.log.WithField("generation", msg.gen).Debug("dropping stale catalogue load")
		return
	}
	if msg.err != nil {
		o.log.WithError(msg.err).Error("country catalogue load failed")
		o.store.SetAPIError(msg.err.Error())
		return
	}
	o.log.WithField("count", len(msg.countries)).Info("country catalogue loaded")
	o.store.SetCountries(msg.countries)
	o.refilter(o.store.Snapshot().SearchQuery)
}

func (o *Orchestrator) onCountryFound(msg countryFoundMsg) tea.Cmd {
	log := o.staleCheck(msg.gen)
	if log == nil {
		return nil
	}
	if msg.err != nil {
		log.WithError(msg.err).Warn("country lookup failed")
	}
	if msg.country == nil {
		log.Debug("no country matched")
		o.finish(log)
		return nil
	}
	return o.Select(*msg.country)
}

func (o *Orchestrator) onCity(msg cityLoadedMsg) {
	log := o.staleCheck(msg.gen)
	if log == nil {
		return
	}
	switch {
	case msg.err != nil:
		log.WithError(msg.err).Warn("capital city lookup failed")
	case msg.city == nil:
		log.Debug("no capital city data")
	default:
		lat, lng, ok := msg.country.Centroid()
		if !ok {
			log.Warn("country has no centroid, dropping capital city data")
			break
		}
		city := *msg.city
		city.Latitude, city.Longitude = lat, lng
		o.store.SetCityData(&city)
	}
	o.settle(log)
}

func (o *Orchestrator) onVisas(msg visasLoadedMsg) {
	log := o.staleCheck(msg.gen)
	if log == nil {
		return
	}
	if msg.err != nil {
		log.WithError(msg.err).Warn("visa lookup failed")
	} else {
		o.store.SetVisaRequirements(msg.visas)
	}
	o.settle(log)
}

// staleCheck returns a logger for current results and nil for superseded
// ones.
func (o *Orchestrator) staleCheck(gen uint64) logrus.FieldLogger {
	if gen != o.gen {
		o.log.WithFields(logrus.Fields{"generation": gen, "current": o.gen}).Debug("dropping stale result")
		return nil
	}
	return o.log.WithFields(logrus.Fields{"cascade": o.cascadeID, "generation": gen})
}

func (o *Orchestrator) settle(log logrus.FieldLogger) {
	o.pending--
	if o.pending > 0 {
		return
	}
	o.finish(log)
}

func (o *Orchestrator) finish(log logrus.FieldLogger) {
	o.pending = 0
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.store.SetIsLoading(false)
	log.Debug("cascade settled")
}

// Close cancels whatever is in flight.
func (o *Orchestrator) Close() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// guard runs fn and converts a panic into the message built by onPanic.
func guard(fn func() tea.Msg, onPanic func(error) tea.Msg) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = onPanic(fmt.Errorf("panic: %v", r))
			}
		}()
		return fn()
	}
}
