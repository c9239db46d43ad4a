package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/treectl/internal/testutil"
	"github.com/atomicstack/treectl/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func plainText(buf *bytes.Buffer, width int) *Text {
	r := lipgloss.NewRenderer(buf)
	r.SetColorProfile(termenv.Ascii)
	return &Text{w: buf, width: width, styles: theme.New(r)}
}

func sampleFrame() Frame {
	root := testutil.Con(1, "root", testutil.Con(2, "a"), testutil.Con(3, "b"))
	return Frame{
		Title:  "I3 Tree",
		Menu:   Menu{Mode: "Select", Actions: []Action{{"q", "quit"}}},
		Rows:   Flatten(root, 2),
		Status: "ready",
	}
}

func TestTextRendersPanels(t *testing.T) {
	var buf bytes.Buffer
	if err := plainText(&buf, 0).Render(sampleFrame()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Commands", "Select ┃ q ∷ quit ┃", "I3 Tree", "├──[con] {splith} - a", "└──[con] {splith} - b", "ready"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Index(out, "Commands") > strings.Index(out, "I3 Tree") {
		t.Fatalf("expected command panel above the tree panel")
	}
}

func TestTextClipsToWidth(t *testing.T) {
	var buf bytes.Buffer
	frame := sampleFrame()
	frame.Rows[1].Text = strings.Repeat("x", 200)
	if err := plainText(&buf, 30).Render(frame); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if w := ansi.StringWidth(line); w > 30 {
			t.Fatalf("expected lines within 30 cells, got %d: %q", w, line)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestTextReportsWriteErrors(t *testing.T) {
	r := NewText(failingWriter{}, 0)
	if err := r.Render(sampleFrame()); err == nil {
		t.Fatalf("expected write error")
	}
}
