package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/atomicstack/treectl/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Text writes frames to w as styled text, one frame after another. Width
// limits each line to that many cells including borders; zero means
// unlimited.
type Text struct {
	w      io.Writer
	width  int
	styles *theme.Styles
}

// NewText binds a lipgloss renderer to w so colour output matches it.
func NewText(w io.Writer, width int) *Text {
	return &Text{
		w:      w,
		width:  width,
		styles: theme.New(lipgloss.NewRenderer(w)),
	}
}

func (t *Text) Render(f Frame) error {
	inner := 0
	if t.width > 0 {
		inner = t.width - 2
		if inner < 1 {
			inner = 1
		}
	}

	menu := t.panel(MenuTitle, []string{t.menuLine(f.Menu, inner)}, inner)
	lines := make([]string, 0, len(f.Rows))
	for _, row := range f.Rows {
		lines = append(lines, t.rowLine(row, inner))
	}
	body := t.panel(f.Title, lines, inner)

	parts := []string{menu, body}
	if f.Status != "" {
		style := t.styles.Status
		if f.StatusIsError {
			style = t.styles.Error
		}
		parts = append(parts, style.Render(t.clip(f.Status, t.width)))
	}
	if _, err := fmt.Fprintln(t.w, lipgloss.JoinVertical(lipgloss.Left, parts...)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (t *Text) panel(title string, lines []string, inner int) string {
	content := make([]string, 0, len(lines)+1)
	content = append(content, t.styles.Title.Render(t.clip(title, inner)))
	content = append(content, lines...)
	style := *t.styles.Panel
	if inner > 0 {
		style = style.Width(inner)
	}
	return style.Render(strings.Join(content, "\n"))
}

func (t *Text) menuLine(m Menu, inner int) string {
	var b strings.Builder
	for _, seg := range m.Segments() {
		switch seg.Kind {
		case SegmentMode:
			b.WriteString(t.styles.Mode.Render(seg.Text))
		case SegmentKey:
			b.WriteString(t.styles.MenuKey.Render(seg.Text))
		default:
			b.WriteString(t.styles.MenuAction.Render(seg.Text))
		}
	}
	return t.clip(b.String(), inner)
}

func (t *Text) rowLine(row Row, inner int) string {
	line := t.clip(row.Line(), inner)
	switch row.Emphasis() {
	case EmphasisSelected:
		return t.styles.Selected.Render(line)
	case EmphasisFocused:
		return t.styles.Focused.Render(line)
	case EmphasisUrgent:
		return t.styles.Urgent.Render(line)
	default:
		return t.styles.Row.Render(line)
	}
}

func (t *Text) clip(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
