package tui

import (
	"testing"

	"github.com/jask/atlas/internal/provider"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{83240525, "83,240,525"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.in); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatArea(t *testing.T) {
	if got := formatArea(357114); got != "357,114 km²" {
		t.Fatalf("formatArea = %q", got)
	}
}

func TestFlagEmoji(t *testing.T) {
	if got := flagEmoji("de"); got != "🇩🇪" {
		t.Fatalf("flagEmoji(de) = %q", got)
	}
	for _, bad := range []string{"", "D", "DEU", "1A"} {
		if got := flagEmoji(bad); got != "🏳" {
			t.Errorf("flagEmoji(%q) = %q, want white flag", bad, got)
		}
	}
}

func TestVisaLabel(t *testing.T) {
	tests := map[provider.VisaCategory]string{
		provider.VisaFree:      "Visa Free",
		provider.VisaRequired:  "Visa Required",
		provider.VisaOnArrival: "Visa On Arrival",
		provider.EVisa:         "E Visa",
	}
	for in, want := range tests {
		if got := visaLabel(in); got != want {
			t.Errorf("visaLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinHelpers(t *testing.T) {
	if got := joinValues(map[string]string{"fra": "French", "deu": "German"}); got != "German, French" {
		t.Fatalf("joinValues = %q", got)
	}
	if got := joinValues(nil); got != "N/A" {
		t.Fatalf("joinValues(nil) = %q", got)
	}
	cur := map[string]provider.Currency{"EUR": {Name: "Euro", Symbol: "€"}, "CHF": {Name: "Swiss franc"}}
	if got := formatCurrencies(cur); got != "Swiss franc, Euro (€)" {
		t.Fatalf("formatCurrencies = %q", got)
	}
}
