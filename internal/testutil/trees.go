package testutil

import (
	"fmt"

	"github.com/atomicstack/treectl/internal/tree"
	"pgregory.net/rapid"
)

// Con builds a container node for fixtures. Children keep their order.
func Con(id tree.ContainerID, name string, children ...*tree.Node) *tree.Node {
	return &tree.Node{
		ID:     id,
		Name:   name,
		Type:   "con",
		Layout: "splith",
		Nodes:  children,
	}
}

// Chain builds a single-child chain of depth nodes with ids 1..depth.
func Chain(depth int) *tree.Node {
	if depth <= 0 {
		return nil
	}
	root := Con(1, "n1")
	cur := root
	for i := 2; i <= depth; i++ {
		next := Con(tree.ContainerID(i), fmt.Sprintf("n%d", i))
		cur.Nodes = []*tree.Node{next}
		cur = next
	}
	return root
}

// Flat builds a root with id 1 and width leaf children numbered from 2.
func Flat(width int) *tree.Node {
	root := Con(1, "root")
	for i := 0; i < width; i++ {
		id := tree.ContainerID(i + 2)
		root.Nodes = append(root.Nodes, Con(id, fmt.Sprintf("leaf%d", i)))
	}
	return root
}

// TreeGen draws arbitrary trees with unique ids. Depth and fan-out are kept
// small enough for rapid to shrink quickly.
func TreeGen() *rapid.Generator[*tree.Node] {
	return rapid.Custom(func(t *rapid.T) *tree.Node {
		next := tree.ContainerID(1)
		var build func(depth int) *tree.Node
		build = func(depth int) *tree.Node {
			n := &tree.Node{
				ID:      next,
				Name:    rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "name"),
				Type:    rapid.SampledFrom([]string{"root", "output", "workspace", "con"}).Draw(t, "type"),
				Layout:  rapid.SampledFrom([]string{"splith", "splitv", "tabbed", "stacked"}).Draw(t, "layout"),
				Focused: rapid.Bool().Draw(t, "focused"),
				Urgent:  rapid.Bool().Draw(t, "urgent"),
			}
			next++
			if depth >= 5 {
				return n
			}
			children := rapid.IntRange(0, 4).Draw(t, "children")
			for i := 0; i < children; i++ {
				n.Nodes = append(n.Nodes, build(depth+1))
			}
			return n
		}
		return build(0)
	})
}
