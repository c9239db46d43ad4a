package events

import "github.com/atomicstack/treectl/internal/logging"

type ProducerTracer struct{}

type producerReason string

const (
	ProducerReasonClosed  producerReason = "closed"
	ProducerReasonExitKey producerReason = "exit-key"
	ProducerReasonError   producerReason = "error"
	ProducerReasonDone    producerReason = "done"
)

var Producer = ProducerTracer{}

func (ProducerTracer) Start(name string) {
	logging.Trace("producer.start", map[string]interface{}{"producer": name})
}

func (ProducerTracer) Stop(name string, reason producerReason) {
	logging.Trace("producer.stop", map[string]interface{}{"producer": name, "reason": string(reason)})
}

func (ProducerTracer) SkipKey(err error) {
	if err == nil {
		return
	}
	logging.Trace("producer.key.skip", map[string]interface{}{"error": err.Error()})
}

func (ProducerTracer) ExitKeyGate(enabled bool) {
	logging.Trace("producer.exit-key", map[string]interface{}{"enabled": enabled})
}
