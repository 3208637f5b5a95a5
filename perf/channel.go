package perf

import "github.com/bnb-chain/perf-dashboard/common/mpsc"

// EventSender is a producer handle of the metric event channel. Clone it for
// each producer and close every clone to let the dashboard finish.
type EventSender = mpsc.Sender[MetricEvent]

// EventReceiver is the consuming end of the metric event channel.
type EventReceiver = mpsc.Receiver[MetricEvent]

// NewEventChannel creates the unbounded channel between the execution engine
// and the dashboard.
func NewEventChannel() (*EventSender, *EventReceiver) {
	return mpsc.New[MetricEvent]()
}
