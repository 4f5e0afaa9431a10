package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/atlas/internal/provider"
	"github.com/jask/atlas/internal/store"
)

// Fixed rows of the layout, used by mouse hit-testing.
const (
	searchTop      = 1
	searchHeight   = 3
	bannerTop      = searchTop + searchHeight
	bannerHeight   = 3
	dropdownTop    = searchTop + searchHeight
	dropdownFirst  = dropdownTop + 1
	defaultWidth   = 80
	wideLayoutMin  = 96
	mapHeightCells = 11
)

func (a *App) contentWidth() int {
	if a.width <= 0 {
		return defaultWidth
	}
	return a.width
}

func renderHeader(width int) string {
	content := headerAppStyle.Render("atlas") + mutedStyle.Background(colorMantle).Render("  explore the world")
	return headerBarStyle.Width(width).Render(content)
}

func (a *App) renderSearchBox(width int) string {
	inner := width - 4
	hint := mutedStyle.Render("enter ⏎ search")
	input := a.input.View()
	gap := inner - lipgloss.Width(input) - lipgloss.Width(hint)
	line := input
	if gap > 0 {
		line += strings.Repeat(" ", gap) + hint
	}
	return searchBoxStyle.Width(width - 2).Render(fitLines(line, inner))
}

func renderErrorBanner(msg string, width int) string {
	hint := helpKeyStyle.Render("ctrl+r") + " " + helpDescStyle.Render("retry")
	text := "⚠ " + msg
	inner := width - 4
	body := truncate(text, inner-lipgloss.Width(hint)-2)
	gap := inner - lipgloss.Width(body) - lipgloss.Width(hint)
	line := body + strings.Repeat(" ", max(gap, 1)) + hint
	return errorBannerStyle.Width(width - 2).Render(line)
}

// renderSuggestions draws the dropdown rows; cursor < 0 highlights nothing.
func renderSuggestions(rows []provider.Country, cursor, width int) string {
	inner := width - 4
	lines := make([]string, 0, len(rows))
	for i, c := range rows {
		prefix := "  "
		if i == cursor {
			prefix = cursorStyle.Render("> ")
		}
		line := prefix + flagEmoji(c.CCA2) + " " + valueStyle.Render(c.Name.Common)
		if c.Region != "" {
			line += "  " + mutedStyle.Render(c.Region)
		}
		line = padRight(truncate(line, inner), inner)
		if i == cursor {
			line = selectedRowStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return dropdownStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderCard(title, body string, width int) string {
	inner := width - 4
	header := padRight(titleStyle.Render(title), inner)
	sep := lipgloss.NewStyle().Foreground(colorSurface2).Render(strings.Repeat("─", max(inner, 0)))
	return cardStyle.Width(width - 2).Render(header + "\n" + sep + "\n" + fitLines(body, inner))
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-11s", label)) + " " + valueStyle.Render(value)
}

func (a *App) loadingLine(what string) string {
	return a.spinner.View() + " " + placeholderStyle.Render("Loading "+what+"…")
}

func (a *App) renderCountryCard(st store.State, width int) string {
	if st.IsLoading {
		return renderCard("Country", a.loadingLine("country"), width)
	}
	c := st.SelectedCountry
	if c == nil {
		return renderCard("Country", placeholderStyle.Render("Select a country to view details"), width)
	}
	region := c.Region
	if c.Subregion != "" {
		region += " · " + c.Subregion
	}
	capital, ok := c.PrimaryCapital()
	if !ok {
		capital = "N/A"
	}
	lines := []string{
		flagEmoji(c.CCA2) + "  " + titleStyle.Render(c.Name.Common),
		mutedStyle.Render(c.Name.Official),
		"",
		field("Region", region),
		field("Capital", capital),
		field("Population", formatCount(c.Population)),
	}
	if c.Area > 0 {
		lines = append(lines, field("Area", formatArea(c.Area)))
	}
	lines = append(lines,
		field("Languages", joinValues(c.Languages)),
		field("Currencies", formatCurrencies(c.Currencies)),
		field("Timezones", strings.Join(c.Timezones, ", ")),
	)
	return renderCard("Country", strings.Join(lines, "\n"), width)
}

func (a *App) renderCityCard(st store.State, width int) string {
	if st.IsLoading {
		return renderCard("Capital City", a.loadingLine("capital city"), width)
	}
	city, c := st.CityData, st.SelectedCountry
	if city == nil || c == nil {
		return renderCard("Capital City", placeholderStyle.Render("Capital city information will appear here"), width)
	}
	elevation := "N/A"
	if city.ElevationMeters != nil {
		elevation = fmt.Sprintf("%dm", *city.ElevationMeters)
	}
	lines := []string{
		titleStyle.Render(city.Name) + "  " + badgeStyle.Background(colorSuccess).Render("Capital"),
		"",
		field("Population", formatCount(city.Population)),
		field("Elevation", elevation),
		field("Timezone", city.Timezone),
		field("Coordinates", fmt.Sprintf("%.2f°, %.2f°", city.Latitude, city.Longitude)),
		"",
		mutedStyle.Render(fmt.Sprintf("%s is the capital of %s, in the %s region.", city.Name, c.Name.Common, c.Region)),
	}
	return renderCard("Capital City", strings.Join(lines, "\n"), width)
}

func (a *App) renderVisaCard(st store.State, width int) string {
	if st.IsLoading {
		return renderCard("Visa Requirements", a.loadingLine("visa requirements"), width)
	}
	if st.SelectedCountry == nil || len(st.VisaRequirements) == 0 {
		return renderCard("Visa Requirements", placeholderStyle.Render("Visa requirements will appear here"), width)
	}
	lines := []string{
		mutedStyle.Render("For " + st.SelectedCountry.Name.Common + " passport holders"),
		"",
	}
	for _, v := range st.VisaRequirements {
		glyph, color := visaGlyph(v.Requirement)
		line := lipgloss.NewStyle().Foreground(color).Render(glyph) + " " +
			valueStyle.Render(v.Country) + "  " +
			badgeStyle.Background(color).Render(visaLabel(v.Requirement))
		if v.DaysAllowed != nil {
			line += "  " + labelStyle.Render(fmt.Sprintf("up to %d days", *v.DaysAllowed))
		}
		if v.Notes != "" {
			line += "  " + mutedStyle.Render(v.Notes)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", placeholderStyle.Render("Verify with official sources before travelling."))
	return renderCard("Visa Requirements", strings.Join(lines, "\n"), width)
}

func (a *App) renderMapCard(st store.State, width int) string {
	if st.IsLoading {
		return renderCard("Map", a.loadingLine("map"), width)
	}
	c := st.SelectedCountry
	if c == nil {
		return renderCard("Map", placeholderStyle.Render("Interactive map will appear here"), width)
	}
	lat, lng, ok := c.Centroid()
	label := c.Name.Common
	if st.CityData != nil {
		lat, lng, ok = st.CityData.Latitude, st.CityData.Longitude, true
		label = st.CityData.Name
	}
	body := renderMap(width-4, mapHeightCells, lat, lng, ok, label)
	if !ok {
		body += "\n" + placeholderStyle.Render("No coordinates for "+c.Name.Common)
	}
	return renderCard("Map", body, width)
}

// renderBody lays the cards out in two columns on wide terminals and one
// column otherwise.
func (a *App) renderBody(st store.State, width int) string {
	if width < wideLayoutMin {
		return lipgloss.JoinVertical(lipgloss.Left,
			a.renderCountryCard(st, width),
			a.renderCityCard(st, width),
			a.renderVisaCard(st, width),
			a.renderMapCard(st, width),
		)
	}
	left := width / 2
	right := width - left
	top := lipgloss.JoinHorizontal(lipgloss.Top, a.renderCountryCard(st, left), a.renderCityCard(st, right))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, a.renderVisaCard(st, left), a.renderMapCard(st, right))
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func renderFooter(bindings []key.Binding, width int) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	return footerStyle.Width(width).Render(strings.Join(parts, sep))
}
