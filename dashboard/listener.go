package dashboard

import (
	"io"
	"os"
	"time"

	"github.com/bnb-chain/perf-dashboard/log"
	"github.com/bnb-chain/perf-dashboard/metrics"
	"github.com/bnb-chain/perf-dashboard/perf"
)

// TpsGasDisplayer renders the per-block transaction and gas figures. Unlike
// the other reports it may keep state across blocks.
type TpsGasDisplayer interface {
	Print(w io.Writer, blockNumber uint64, record metrics.TpsGasRecord)
}

// Option configures a Listener.
type Option func(*Listener)

// WithOutput sets the report destination. The default is stdout.
func WithOutput(w io.Writer) Option {
	return func(l *Listener) { l.out = w }
}

// WithFamilies restricts the reports to the given families. Events of other
// families are consumed and dropped.
func WithFamilies(families perf.Families) Option {
	return func(l *Listener) { l.families = families }
}

// WithTpsGasDisplayer sets the renderer of BlockTpsAndGas events. Without one
// those events are dropped.
func WithTpsGasDisplayer(d TpsGasDisplayer) Option {
	return func(l *Listener) { l.tpsGas = d }
}

// WithColor colours the report titles.
func WithColor(enabled bool) Option {
	return func(l *Listener) { l.color = enabled }
}

// WithProgressInterval logs progress at most once per period instead of once
// every hundred events. A period of zero or less logs every event.
func WithProgressInterval(period time.Duration) Option {
	return func(l *Listener) { l.progress = log.NewInterval(period) }
}

// Listener owns the receiving end of the metric event channel and prints a
// report for every event it takes off the channel.
type Listener struct {
	rx       *perf.EventReceiver
	out      io.Writer
	color    bool
	families perf.Families
	tpsGas   TpsGasDisplayer

	handler  perf.EventHandler
	handled  uint64
	progress log.LoggerFilter
}

// NewListener binds a listener to rx.
func NewListener(rx *perf.EventReceiver, opts ...Option) *Listener {
	l := &Listener{
		rx:       rx,
		out:      os.Stdout,
		families: perf.AllEnabled,
		progress: &log.EveryN{N: 100},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.color {
		l.out = NewColorWriter(l.out)
	}
	l.handler = &dispatcher{l}
	return l
}

// Run handles events in arrival order until every sender has been closed and
// the channel is drained.
func (l *Listener) Run() {
	for {
		ev, ok := l.rx.Recv()
		if !ok {
			log.Debug("Metric event channel closed", "handled", l.handled)
			return
		}
		l.handled++
		if ev == nil {
			log.Warn("Dropping nil metric event")
			continue
		}
		ev.Accept(l.handler)
		log.InfoBy(l.progress, "Rendered metric events", "count", l.handled, "backlog", l.rx.Len())
	}
}

// dispatcher routes every event variant to its report.
type dispatcher struct {
	l *Listener
}

var _ perf.EventHandler = (*dispatcher)(nil)

func (d *dispatcher) dropNil(f perf.Family) {
	log.Warn("Dropping nil metric event", "family", f.String())
}

func (d *dispatcher) accepts(ev perf.MetricEvent, hasRecord bool) bool {
	if !d.l.families.Has(ev.Family()) {
		log.Debug("Dropping metric event of disabled family", "family", ev.Family().String(), "block", ev.Block())
		return false
	}
	if !hasRecord {
		log.Warn("Dropping metric event without record", "family", ev.Family().String(), "block", ev.Block())
		return false
	}
	return true
}

func (d *dispatcher) HandleExecutionStageTime(ev *perf.ExecutionStageTime) {
	if ev == nil {
		d.dropNil(perf.FamilyExecution)
		return
	}
	if !d.accepts(ev, ev.Record != nil) {
		return
	}
	Print(d.l.out, NewExecutionStats(ev.Record))
}

func (d *dispatcher) HandleBlockTpsAndGas(ev *perf.BlockTpsAndGas) {
	if ev == nil {
		d.dropNil(perf.FamilyTpsGas)
		return
	}
	if !d.accepts(ev, true) || d.l.tpsGas == nil {
		return
	}
	d.l.tpsGas.Print(d.l.out, ev.BlockNumber, ev.Record)
}

func (d *dispatcher) HandleOpcodeInfo(ev *perf.OpcodeInfo) {
	if ev == nil {
		d.dropNil(perf.FamilyOpcode)
		return
	}
	if !d.accepts(ev, ev.Record != nil) {
		return
	}
	printOpcodeReport(d.l.out, ev.Record)
}

func (d *dispatcher) HandleCacheDbInfo(ev *perf.CacheDbInfo) {
	if ev == nil {
		d.dropNil(perf.FamilyCache)
		return
	}
	if !d.accepts(ev, ev.Record != nil) {
		return
	}
	report := &cacheReport{blockNumber: ev.BlockNumber, size: ev.Size, record: ev.Record}
	report.print(d.l.out)
}
