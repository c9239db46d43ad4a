// Package ui contains the control loop that drives the dashboard. The loop is
// the single consumer of the event aggregator and the only goroutine that
// touches the selection state machine.
//
// Event flow:
//   - Run renders a frame, blocks on the event source, and dispatches the
//     event through a handler keyed on its kind.
//   - Key events are looked up in the binding table for the current mode
//     (bindings.go). The same table produces the command summary shown in
//     the menu panel, so what is drawn is always what is bound.
//   - Tree-changed events re-query the tree provider and hand the new
//     snapshot to the state machine, which keeps or relocates the selection.
//   - Ticks only trigger the next render.
//
// Commands:
//   - Move and split requests go through internal/ui/command, which traces
//     each command and applies the error policy. Failures are shown on the
//     status line and the loop keeps going, unless strict mode is on.
//
// Search mode suppresses the aggregator's exit key so "q" can be typed into
// the query; leaving search restores it.
package ui
