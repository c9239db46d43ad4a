package selection

import (
	"strings"

	"github.com/atomicstack/treectl/internal/logging/events"
	"github.com/atomicstack/treectl/internal/tree"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// StartSearch enters ModeSearching from ModeBrowsing and remembers the current
// selection for CancelSearch. It reports whether the mode changed.
func (m *Machine) StartSearch() bool {
	if m.mode != ModeBrowsing {
		return false
	}
	m.restore = m.selected
	m.query = m.query[:0]
	m.setMode(ModeSearching)
	return true
}

// AppendQuery adds r to the query and jumps to the best match.
func (m *Machine) AppendQuery(r rune) {
	if m.mode != ModeSearching {
		return
	}
	m.query = append(m.query, r)
	m.applyQuery()
}

// DeleteQuery removes the last rune of the query. An emptied query returns the
// selection to where the search started.
func (m *Machine) DeleteQuery() {
	if m.mode != ModeSearching || len(m.query) == 0 {
		return
	}
	m.query = m.query[:len(m.query)-1]
	m.applyQuery()
}

// AcceptSearch keeps the matched selection and returns to ModeBrowsing.
func (m *Machine) AcceptSearch() {
	if m.mode != ModeSearching {
		return
	}
	m.query = m.query[:0]
	m.restore = 0
	m.setMode(ModeBrowsing)
}

// CancelSearch restores the selection from before StartSearch.
func (m *Machine) CancelSearch() {
	if m.mode != ModeSearching {
		return
	}
	if m.snap.Contains(m.restore) {
		m.setSelected(m.restore)
	}
	m.query = m.query[:0]
	m.restore = 0
	m.setMode(ModeBrowsing)
}

func (m *Machine) applyQuery() {
	query := string(m.query)
	if strings.TrimSpace(query) == "" {
		if m.snap.Contains(m.restore) {
			m.setSelected(m.restore)
		}
		return
	}
	id, ok := BestMatch(m.snap, query)
	events.Search.Query(query, int64(id), ok)
	if ok {
		m.setSelected(id)
	}
}

// Label is the text search matches a node against.
func Label(n *tree.Node) string {
	if n == nil {
		return ""
	}
	if n.Name != "" {
		return n.Name
	}
	return n.Type
}

// BestMatch picks the container whose label best matches query: exact, then
// prefix, then substring, then the closest fuzzy match. Ties go to the earlier
// container in pre-order.
func BestMatch(snap *tree.Snapshot, query string) (tree.ContainerID, bool) {
	trimmed := strings.TrimSpace(query)
	ids := snap.IDs()
	if trimmed == "" || len(ids) == 0 {
		return 0, false
	}
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = Label(snap.Find(id))
	}

	lower := strings.ToLower(trimmed)
	for i, label := range labels {
		if strings.EqualFold(label, trimmed) {
			return ids[i], true
		}
	}
	for i, label := range labels {
		if strings.HasPrefix(strings.ToLower(label), lower) {
			return ids[i], true
		}
	}
	for i, label := range labels {
		if strings.Contains(strings.ToLower(label), lower) {
			return ids[i], true
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0, false
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(ids) {
		return 0, false
	}
	return ids[best.OriginalIndex], true
}
