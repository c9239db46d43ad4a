package events

import "github.com/atomicstack/treectl/internal/logging"

type SelectionTracer struct{}

type SearchTracer struct{}

type TreeTracer struct{}

type CommandTracer struct{}

var (
	Selection = SelectionTracer{}
	Search    = SearchTracer{}
	Tree      = TreeTracer{}
	Command   = CommandTracer{}
)

func (SelectionTracer) Move(from, to int64) {
	logging.Trace("selection.move", map[string]interface{}{"from": from, "to": to})
}

func (SelectionTracer) Mode(from, to string) {
	logging.Trace("selection.mode", map[string]interface{}{"from": from, "to": to})
}

func (SelectionTracer) Fallback(lost, to int64) {
	logging.Trace("selection.fallback", map[string]interface{}{"lost": lost, "to": to})
}

func (SearchTracer) Query(query string, match int64, found bool) {
	logging.Trace("search.query", map[string]interface{}{"query": query, "match": match, "found": found})
}

func (TreeTracer) Refresh(nodes int) {
	logging.Trace("tree.refresh", map[string]interface{}{"nodes": nodes})
}

func (TreeTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("tree.error", map[string]interface{}{"error": err.Error()})
}

func (CommandTracer) Queue(id int64, command string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "command": command})
}

func (CommandTracer) Success(id int64, command string) {
	logging.Trace("command.success", map[string]interface{}{"id": id, "command": command})
}

func (CommandTracer) Error(id int64, command string, err error) {
	if err == nil {
		return
	}
	logging.Trace("command.error", map[string]interface{}{"id": id, "command": command, "error": err.Error()})
}

type LoopTracer struct{}

var Loop = LoopTracer{}

func (LoopTracer) Key(mode, key string, bound bool) {
	logging.Trace("loop.key", map[string]interface{}{"mode": mode, "key": key, "bound": bound})
}

func (LoopTracer) Recovered(err error) {
	if err == nil {
		return
	}
	logging.Trace("loop.recovered", map[string]interface{}{"error": err.Error()})
}
