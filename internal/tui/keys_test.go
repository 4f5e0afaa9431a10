package tui

import "testing"

func TestLookupPrefersScopeThenGlobal(t *testing.T) {
	r := NewKeyRegistry()

	if b := r.Lookup("enter", scopeSearch); b == nil || b.Action != actionSubmit {
		t.Fatalf("enter in search = %+v, want submit", b)
	}
	if b := r.Lookup("enter", scopeSuggestions); b == nil || b.Action != actionSelect {
		t.Fatalf("enter in suggestions = %+v, want select", b)
	}
	if b := r.Lookup("ctrl+r", scopeSuggestions); b == nil || b.Action != actionRetry {
		t.Fatalf("ctrl+r should fall back to global, got %+v", b)
	}
	if b := r.Lookup("up", scopeSearch); b != nil {
		t.Fatalf("up is unbound in search, got %+v", b)
	}
	if b := r.Lookup("a", scopeSearch); b != nil {
		t.Fatalf("plain runes must reach the input, got %+v", b)
	}
}

func TestLookupNormalizesNames(t *testing.T) {
	r := NewKeyRegistry()
	for _, name := range []string{"Return", " ESCAPE ", "Control+C"} {
		if r.Lookup(name, scopeSuggestions) == nil {
			t.Errorf("Lookup(%q) = nil", name)
		}
	}
}

func TestRegisterIgnoresCollisions(t *testing.T) {
	r := NewKeyRegistry()
	before := len(r.BindingsForScope(scopeSearch))
	r.Register(Binding{Action: actionQuit, Keys: []string{"enter"}, Scopes: []string{scopeSearch}})
	if got := len(r.BindingsForScope(scopeSearch)); got != before {
		t.Fatalf("bindings = %d, want %d", got, before)
	}
	if b := r.Lookup("enter", scopeSearch); b.Action != actionSubmit {
		t.Fatalf("enter rebound to %s", b.Action)
	}
}

func TestHelpBindingsIncludeGlobal(t *testing.T) {
	r := NewKeyRegistry()
	help := r.HelpBindings(scopeSearch)
	var keys []string
	for _, b := range help {
		keys = append(keys, b.Help().Key)
	}
	want := []string{"enter", "down", "ctrl+r", "ctrl+c"}
	if len(keys) != len(want) {
		t.Fatalf("help keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("help keys = %v, want %v", keys, want)
		}
	}
}
