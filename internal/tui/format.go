package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jask/atlas/internal/provider"
)

var numberPrinter = message.NewPrinter(language.English)

// formatCount groups digits: 83240525 -> "83,240,525".
func formatCount(n int64) string {
	return numberPrinter.Sprint(number.Decimal(n))
}

func formatArea(km2 float64) string {
	return numberPrinter.Sprint(number.Decimal(km2, number.MaxFractionDigits(0))) + " km²"
}

// flagEmoji turns an ISO alpha-2 code into its regional-indicator pair.
func flagEmoji(cca2 string) string {
	code := strings.ToUpper(strings.TrimSpace(cca2))
	if len(code) != 2 {
		return "🏳"
	}
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "🏳"
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}

// visaLabel renders a category for display: "visa-on-arrival" -> "Visa On Arrival".
func visaLabel(c provider.VisaCategory) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "-", " "))
}

func visaGlyph(c provider.VisaCategory) (string, lipgloss.Color) {
	switch c {
	case provider.VisaFree:
		return "✓", colorSuccess
	case provider.VisaRequired:
		return "✗", colorError
	case provider.VisaOnArrival:
		return "◷", colorWarning
	case provider.EVisa:
		return "✎", colorInfo
	default:
		return "?", colorOverlay1
	}
}

// joinValues lists map values sorted by key, or "N/A".
func joinValues(m map[string]string) string {
	if len(m) == 0 {
		return "N/A"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, m[k])
	}
	return strings.Join(vals, ", ")
}

func formatCurrencies(m map[string]provider.Currency) string {
	if len(m) == 0 {
		return "N/A"
	}
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		c := m[code]
		if c.Symbol != "" {
			out = append(out, c.Name+" ("+c.Symbol+")")
		} else {
			out = append(out, c.Name)
		}
	}
	return strings.Join(out, ", ")
}
