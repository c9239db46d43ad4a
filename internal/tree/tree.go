// Package tree holds the per-frame view of a window manager's container
// hierarchy. A Snapshot is never patched: every change notification produces
// a new one.
package tree

// ContainerID identifies a container within one snapshot. Identity across
// snapshots is only as stable as the window manager keeps it.
type ContainerID int64

// Node is one container. Name is empty when the window manager reports none.
type Node struct {
	ID      ContainerID
	Name    string
	Type    string
	Layout  string
	Focused bool
	Urgent  bool
	Nodes   []*Node
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, child := range n.Nodes {
		total += child.Count()
	}
	return total
}

// CollectIDs lists every id below root in pre-order, root first.
func CollectIDs(root *Node) []ContainerID {
	if root == nil {
		return nil
	}
	ids := make([]ContainerID, 0, root.Count())
	var walk func(*Node)
	walk = func(n *Node) {
		ids = append(ids, n.ID)
		for _, child := range n.Nodes {
			walk(child)
		}
	}
	walk(root)
	return ids
}

// Snapshot pairs a tree with its pre-order id list and parent links.
type Snapshot struct {
	root    *Node
	ids     []ContainerID
	nodes   map[ContainerID]*Node
	parents map[ContainerID]ContainerID
}

// NewSnapshot indexes root. The caller must not mutate root afterwards.
func NewSnapshot(root *Node) *Snapshot {
	s := &Snapshot{
		root:    root,
		ids:     CollectIDs(root),
		nodes:   make(map[ContainerID]*Node),
		parents: make(map[ContainerID]ContainerID),
	}
	var index func(parent, n *Node)
	index = func(parent, n *Node) {
		if _, seen := s.nodes[n.ID]; !seen {
			s.nodes[n.ID] = n
			if parent != nil {
				s.parents[n.ID] = parent.ID
			}
		}
		for _, child := range n.Nodes {
			index(n, child)
		}
	}
	if root != nil {
		index(nil, root)
	}
	return s
}

// Root returns the root node, or nil for an empty snapshot.
func (s *Snapshot) Root() *Node {
	if s == nil {
		return nil
	}
	return s.root
}

// RootID returns the root's id and whether the snapshot has a root.
func (s *Snapshot) RootID() (ContainerID, bool) {
	if s == nil || s.root == nil {
		return 0, false
	}
	return s.root.ID, true
}

// IDs returns the pre-order id list. The slice is shared; do not modify it.
func (s *Snapshot) IDs() []ContainerID {
	if s == nil {
		return nil
	}
	return s.ids
}

// Len reports how many ids the snapshot holds.
func (s *Snapshot) Len() int {
	return len(s.IDs())
}

// Contains reports whether id is present.
func (s *Snapshot) Contains(id ContainerID) bool {
	if s == nil {
		return false
	}
	_, ok := s.nodes[id]
	return ok
}

// Find returns the node for id, or nil.
func (s *Snapshot) Find(id ContainerID) *Node {
	if s == nil {
		return nil
	}
	return s.nodes[id]
}

// Parent returns the id of id's parent. The root has no parent.
func (s *Snapshot) Parent(id ContainerID) (ContainerID, bool) {
	if s == nil {
		return 0, false
	}
	parent, ok := s.parents[id]
	return parent, ok
}

// Ancestors lists id's ancestors from the nearest parent up to the root.
func (s *Snapshot) Ancestors(id ContainerID) []ContainerID {
	var out []ContainerID
	for {
		parent, ok := s.Parent(id)
		if !ok {
			return out
		}
		out = append(out, parent)
		id = parent
	}
}
