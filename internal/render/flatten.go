// Package render turns a container tree into display rows and draws frames
// built from them.
package render

import (
	"fmt"

	"github.com/atomicstack/treectl/internal/tree"
)

const (
	branchGlyph = "├──"
	leafGlyph   = "└──"
	branchFill  = "│  "
	leafFill    = "   "
)

// Row is one line of the flattened tree.
type Row struct {
	ID          tree.ContainerID
	Prefix      string
	Text        string
	Highlighted bool
	Focused     bool
	Urgent      bool
}

// Line joins the indentation prefix and the text.
func (r Row) Line() string {
	return r.Prefix + r.Text
}

// Emphasis is the single style a row is drawn with.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	EmphasisUrgent
	EmphasisFocused
	EmphasisSelected
)

// Emphasis resolves overlapping flags. Each flag replaces the previous style
// rather than combining with it: selected over focused over urgent.
func (r Row) Emphasis() Emphasis {
	switch {
	case r.Highlighted:
		return EmphasisSelected
	case r.Focused:
		return EmphasisFocused
	case r.Urgent:
		return EmphasisUrgent
	default:
		return EmphasisNone
	}
}

type level int

const (
	levelRoot level = iota
	levelBranch
	levelLeaf
)

type trail struct {
	indent string
	level  level
}

func (c trail) glyph() string {
	switch c.level {
	case levelBranch:
		return branchGlyph
	case levelLeaf:
		return leafGlyph
	default:
		return ""
	}
}

func (c trail) fill() string {
	switch c.level {
	case levelBranch:
		return branchFill
	case levelLeaf:
		return leafFill
	default:
		return ""
	}
}

func (c trail) child(last bool) trail {
	next := trail{indent: c.indent + c.fill(), level: levelBranch}
	if last {
		next.level = levelLeaf
	}
	return next
}

// Flatten lists root and its descendants in pre-order, one row per node.
func Flatten(root *tree.Node, selected tree.ContainerID) []Row {
	if root == nil {
		return nil
	}
	rows := make([]Row, 0, root.Count())
	var walk func(n *tree.Node, ctx trail)
	walk = func(n *tree.Node, ctx trail) {
		rows = append(rows, Row{
			ID:          n.ID,
			Prefix:      ctx.indent + ctx.glyph(),
			Text:        NodeText(n),
			Highlighted: n.ID == selected,
			Focused:     n.Focused,
			Urgent:      n.Urgent,
		})
		for i, child := range n.Nodes {
			walk(child, ctx.child(i == len(n.Nodes)-1))
		}
	}
	walk(root, trail{level: levelRoot})
	return rows
}

// NodeText formats a node as "[type] {layout} - name".
func NodeText(n *tree.Node) string {
	return fmt.Sprintf("[%s] {%s} - %s", n.Type, n.Layout, n.Name)
}

// SelectedIndex returns the index of the first highlighted row, or -1.
func SelectedIndex(rows []Row) int {
	for i, row := range rows {
		if row.Highlighted {
			return i
		}
	}
	return -1
}
