package terminal

import (
	"github.com/atomicstack/treectl/internal/render"
	"github.com/atomicstack/treectl/internal/theme"
	"github.com/charmbracelet/x/ansi"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type styles struct {
	border   tcell.Style
	title    tcell.Style
	status   tcell.Style
	mode     tcell.Style
	key      tcell.Style
	action   tcell.Style
	row      tcell.Style
	urgent   tcell.Style
	focused  tcell.Style
	selected tcell.Style
}

func defaultStyles() styles {
	p := theme.Colors()
	base := tcell.StyleDefault
	return styles{
		border:   base.Foreground(tcell.PaletteColor(p.Border)),
		title:    base.Foreground(tcell.PaletteColor(p.Title)).Bold(true),
		status:   base.Foreground(tcell.PaletteColor(p.Status)),
		mode:     base.Reverse(true),
		key:      base.Foreground(tcell.PaletteColor(p.Key)).Bold(true),
		action:   base,
		row:      base,
		urgent:   base.Background(tcell.PaletteColor(p.Urgent)),
		focused:  base.Background(tcell.PaletteColor(p.Focused)),
		selected: base.Reverse(true),
	}
}

func (st styles) forRow(row render.Row) tcell.Style {
	switch row.Emphasis() {
	case render.EmphasisSelected:
		return st.selected
	case render.EmphasisFocused:
		return st.focused
	case render.EmphasisUrgent:
		return st.urgent
	default:
		return st.row
	}
}

// drawBox outlines a w by h box with title on the top edge and footer on the
// bottom edge.
func (s *Screen) drawBox(x, y, w, h int, title, footer string) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1
	for col := x + 1; col < right; col++ {
		s.screen.SetContent(col, y, tcell.RuneHLine, nil, s.styles.border)
		s.screen.SetContent(col, bottom, tcell.RuneHLine, nil, s.styles.border)
	}
	for row := y + 1; row < bottom; row++ {
		s.screen.SetContent(x, row, tcell.RuneVLine, nil, s.styles.border)
		s.screen.SetContent(right, row, tcell.RuneVLine, nil, s.styles.border)
	}
	s.screen.SetContent(x, y, tcell.RuneULCorner, nil, s.styles.border)
	s.screen.SetContent(right, y, tcell.RuneURCorner, nil, s.styles.border)
	s.screen.SetContent(x, bottom, tcell.RuneLLCorner, nil, s.styles.border)
	s.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, s.styles.border)

	if title != "" {
		s.drawText(x+1, y, w-2, title, s.styles.title)
	}
	if footer != "" {
		s.drawText(x+1, bottom, w-2, footer, s.styles.status)
	}
}

// drawText writes s starting at x, clipped to width cells, and returns the
// column after the last cell written.
func (s *Screen) drawText(x, y, width int, text string, style tcell.Style) int {
	if width <= 0 {
		return x
	}
	if ansi.StringWidth(text) > width {
		text = ansi.Truncate(text, width, "…")
	}
	col := x
	limit := x + width
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > limit {
			break
		}
		s.screen.SetContent(col, y, r, nil, style)
		col += w
	}
	return col
}

func (s *Screen) fill(x, y, width int, style tcell.Style) {
	for col := x; col < x+width; col++ {
		s.screen.SetContent(col, y, ' ', nil, style)
	}
}
