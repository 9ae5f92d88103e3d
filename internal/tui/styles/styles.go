package styles

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles every TUI component renders with. Apply rebuilds
// it from configured colors.
var Theme = build(Colors{
	Primary:  "213",
	Success:  "114",
	Error:    "196",
	Info:     "245",
	Emphasis: "212",
	Border:   "213",
})

// Colors are lipgloss color strings (ANSI numbers or hex).
type Colors struct {
	Primary  string
	Success  string
	Error    string
	Info     string
	Emphasis string
	Border   string
}

// Styles defines the core UI styles
type Styles struct {
	Title    lipgloss.Style
	Panel    lipgloss.Style
	Focused  lipgloss.Style
	Row      lipgloss.Style
	Active   lipgloss.Style
	Cursor   lipgloss.Style
	Header   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Help     lipgloss.Style
	Empty    lipgloss.Style
	Download lipgloss.Style
}

// Apply replaces Theme with styles built from c.
func Apply(c Colors) {
	Theme = build(c)
}

func build(c Colors) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(c.Primary)).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Border)),
		Row: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")),
		Active: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(c.Primary)),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Emphasis)).
			Bold(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Emphasis)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Error)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Success)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Info)),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")).
			Italic(true),
		Download: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Info)),
	}
}
