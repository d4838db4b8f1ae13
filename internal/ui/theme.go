package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anodegrind/circuitplayer/internal/logtail"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string
	Selection  string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Glow    string // second stop of the progress gradient
	Success string
	Warning string
	Danger  string
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Header    lipgloss.Style
	Logo      lipgloss.Style
	Footer    lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Faint     lipgloss.Style
	Accent    lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
	Selected  lipgloss.Style
	Current   lipgloss.Style
	Pulsing   lipgloss.Style
	HelpPanel lipgloss.Style
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Logo: fg(t.Accent).Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Text:    fg(t.Text),
		Muted:   fg(t.Muted),
		Faint:   fg(t.Faint),
		Accent:  fg(t.Accent),
		Success: fg(t.Success).Bold(true),
		Warning: fg(t.Warning),
		Danger:  fg(t.Danger).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Selection)).
			Foreground(lipgloss.Color(t.Text)),
		Current: fg(t.Accent).Bold(true),
		Pulsing: fg(t.Glow).Bold(true),
		HelpPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Accent)).
			Padding(1, 2),
	}
}

// LogStyles colors the log view.
func (t Theme) LogStyles() logtail.Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return logtail.Styles{
		Time:  fg(t.Faint),
		Info:  fg(t.Text),
		Warn:  fg(t.Warning),
		Error: fg(t.Danger),
	}
}

var themes = map[string]Theme{
	"orange":   orangeTheme(),
	"amber":    amberTheme(),
	"phosphor": phosphorTheme(),
}

var themeOrder = []string{"orange", "amber", "phosphor"}

// GetTheme returns a theme by case-insensitive name, defaulting to orange.
func GetTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return orangeTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if strings.EqualFold(name, current) {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func orangeTheme() Theme {
	return Theme{
		Name:       "orange",
		Background: "#0a0a0a",
		Surface:    "#1a1a1a",
		Selection:  "#2a1a0e",
		Text:       "#e6e6e6",
		Muted:      "#8a8a8a",
		Faint:      "#5a5a5a",
		Accent:     "#ff6b00",
		Glow:       "#ffa040",
		Success:    "#7fc97f",
		Warning:    "#ffcc33",
		Danger:     "#ff4444",
	}
}

func amberTheme() Theme {
	return Theme{
		Name:       "amber",
		Background: "#100800",
		Surface:    "#1c1204",
		Selection:  "#3a2606",
		Text:       "#ffd9a0",
		Muted:      "#b08850",
		Faint:      "#6e5530",
		Accent:     "#ffb000",
		Glow:       "#ffe066",
		Success:    "#c8e07a",
		Warning:    "#ffd000",
		Danger:     "#ff5f3a",
	}
}

func phosphorTheme() Theme {
	// Green-screen terminal palette.
	return Theme{
		Name:       "phosphor",
		Background: "#020a04",
		Surface:    "#06160a",
		Selection:  "#0c2e14",
		Text:       "#b6ffc6",
		Muted:      "#5fae72",
		Faint:      "#2f6b3d",
		Accent:     "#33ff66",
		Glow:       "#b3ffcc",
		Success:    "#33ff66",
		Warning:    "#e0ff66",
		Danger:     "#ff6666",
	}
}
