package theme

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the 256-colour indices shared by every renderer.
type Palette struct {
	Urgent  int
	Focused int
	Border  int
	Title   int
	Key     int
	Status  int
	Error   int
}

var palette = Palette{
	Urgent:  13,
	Focused: 10,
	Border:  238,
	Title:   245,
	Key:     33,
	Status:  249,
	Error:   196,
}

// Colors returns the shared palette.
func Colors() Palette {
	return palette
}

// Styles describes reusable Lip Gloss styles for the text renderer.
type Styles struct {
	Panel      *lipgloss.Style
	Title      *lipgloss.Style
	Mode       *lipgloss.Style
	MenuKey    *lipgloss.Style
	MenuAction *lipgloss.Style
	Row        *lipgloss.Style
	Urgent     *lipgloss.Style
	Focused    *lipgloss.Style
	Selected   *lipgloss.Style
	Status     *lipgloss.Style
	Error      *lipgloss.Style
}

// New builds the style set against r, so colour support follows r's output.
func New(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Panel: ptr(
			r.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(color(palette.Border)),
		),
		Title: ptr(
			r.NewStyle().Foreground(color(palette.Title)).Bold(true),
		),
		Mode: ptr(
			r.NewStyle().Reverse(true),
		),
		MenuKey: ptr(
			r.NewStyle().Foreground(color(palette.Key)).Bold(true),
		),
		MenuAction: ptr(
			r.NewStyle(),
		),
		Row: ptr(
			r.NewStyle(),
		),
		Urgent: ptr(
			r.NewStyle().Background(color(palette.Urgent)),
		),
		Focused: ptr(
			r.NewStyle().Background(color(palette.Focused)),
		),
		Selected: ptr(
			r.NewStyle().Reverse(true),
		),
		Status: ptr(
			r.NewStyle().Foreground(color(palette.Status)),
		),
		Error: ptr(
			r.NewStyle().Foreground(color(palette.Error)).Bold(true),
		),
	}
}

func color(n int) lipgloss.Color {
	return lipgloss.Color(strconv.Itoa(n))
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
