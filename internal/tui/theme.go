package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSapphire lipgloss.Color = "#74c7ec"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

// Semantic aliases.
const (
	colorBrand   = colorPink
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorBlue
	colorMarker  = colorPeach
)

func paletteColors() []lipgloss.Color {
	return []lipgloss.Color{
		colorPink, colorMauve, colorRed, colorPeach, colorYellow,
		colorGreen, colorTeal, colorSapphire, colorBlue, colorLavender,
		colorText, colorSubtext1, colorSubtext0, colorOverlay1, colorOverlay0,
		colorSurface2, colorSurface1, colorSurface0, colorMantle,
	}
}

var (
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	searchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFocus).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	dropdownStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	errorBannerStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorError).
				Foreground(colorError).
				Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	labelStyle       = lipgloss.NewStyle().Foreground(colorSubtext0)
	valueStyle       = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle       = lipgloss.NewStyle().Foreground(colorOverlay1)
	placeholderStyle = lipgloss.NewStyle().Foreground(colorOverlay0).Italic(true)
	cursorStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	selectedRowStyle = lipgloss.NewStyle().Background(colorSurface0)
	badgeStyle       = lipgloss.NewStyle().Foreground(colorMantle).Padding(0, 1)

	mapGridStyle    = lipgloss.NewStyle().Foreground(colorSurface1)
	mapEquatorStyle = lipgloss.NewStyle().Foreground(colorSurface2)
	mapMarkerStyle  = lipgloss.NewStyle().Foreground(colorMarker).Bold(true)
	mapLabelStyle   = lipgloss.NewStyle().Foreground(colorText)
)
