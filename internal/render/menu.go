package render

import "strings"

const (
	menuSeparator = "┃"
	menuArrow     = "∷"
)

// Action pairs a key label with what it does.
type Action struct {
	Key   string
	Label string
}

// Menu summarises the active mode and its bindings.
type Menu struct {
	Mode    string
	Actions []Action
}

// SegmentKind tells a renderer how to style a Segment.
type SegmentKind int

const (
	SegmentMode SegmentKind = iota
	SegmentKey
	SegmentAction
)

// Segment is a styled run of menu text.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Segments lays the menu out as "Mode ┃ key ∷ action ┃ ...".
func (m Menu) Segments() []Segment {
	out := make([]Segment, 0, 1+2*len(m.Actions))
	out = append(out, Segment{Kind: SegmentMode, Text: m.Mode + " " + menuSeparator})
	for _, a := range m.Actions {
		out = append(out,
			Segment{Kind: SegmentKey, Text: " " + a.Key + " " + menuArrow + " "},
			Segment{Kind: SegmentAction, Text: a.Label + " " + menuSeparator},
		)
	}
	return out
}

// String renders the menu without styling.
func (m Menu) String() string {
	var b strings.Builder
	for _, seg := range m.Segments() {
		b.WriteString(seg.Text)
	}
	return b.String()
}
