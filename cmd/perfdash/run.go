package main

import (
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/bnb-chain/perf-dashboard/common/gopool"
	"github.com/bnb-chain/perf-dashboard/dashboard"
	"github.com/bnb-chain/perf-dashboard/log"
	"github.com/bnb-chain/perf-dashboard/perf"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// producer feeds events into its own sender until it is done.
type producer func(tx *perf.EventSender) error

// runDashboard renders the events of all producers. Every producer runs on the
// goroutine pool with a dedicated sender, and the call returns once the
// listener has printed the last event.
func runDashboard(cfg perfdashConfig, families perf.Families, producers []producer) error {
	tx, rx := perf.NewEventChannel()
	out, color := reportWriter(cfg.Dashboard.Color)
	opts := []dashboard.Option{
		dashboard.WithOutput(out),
		dashboard.WithColor(color),
		dashboard.WithFamilies(families),
		dashboard.WithTpsGasDisplayer(newTpsGasDisplayer()),
	}
	if cfg.Dashboard.ProgressInterval > 0 {
		opts = append(opts, dashboard.WithProgressInterval(cfg.Dashboard.ProgressInterval))
	}
	listener := dashboard.NewListener(rx, opts...)
	done := make(chan struct{})
	go func() {
		listener.Run()
		close(done)
	}()

	var failed atomic.Int32
	senders := make([]*perf.EventSender, 0, len(producers))
	tasks := make([]func(), 0, len(producers))
	for _, produce := range producers {
		sender, err := tx.Clone()
		if err != nil {
			for _, s := range senders {
				s.Close()
			}
			tx.Close()
			<-done
			return err
		}
		produce := produce
		senders = append(senders, sender)
		tasks = append(tasks, func() {
			defer sender.Close()
			if err := produce(sender); err != nil {
				log.Error("Event producer failed", "err", err)
				failed.Add(1)
			}
		})
	}
	tx.Close()

	wg, submitted, err := gopool.SubmitAll(tasks)
	for _, sender := range senders[submitted:] {
		sender.Close()
	}
	wg.Wait()
	<-done

	if err != nil {
		return errors.Wrap(err, "submit producers")
	}
	if n := failed.Load(); n > 0 {
		return errors.Errorf("%d of %d producers failed", n, len(producers))
	}
	return nil
}

// eventStats counts what the producers sent, per family.
type eventStats struct {
	mu        sync.Mutex
	events    map[perf.Family]uint64
	malformed uint64
}

func newEventStats() *eventStats {
	return &eventStats{events: make(map[perf.Family]uint64)}
}

func (s *eventStats) add(f perf.Family) {
	s.mu.Lock()
	s.events[f]++
	s.mu.Unlock()
}

func (s *eventStats) addMalformed() {
	s.mu.Lock()
	s.malformed++
	s.mu.Unlock()
}

func (s *eventStats) render(w io.Writer, enabled perf.Families) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Family", "Reported", "Events"})
	var total uint64
	for _, f := range perf.AllFamilies() {
		total += s.events[f]
		table.Append([]string{f.String(), strconv.FormatBool(enabled.Has(f)), strconv.FormatUint(s.events[f], 10)})
	}
	table.Append([]string{"malformed", "", strconv.FormatUint(s.malformed, 10)})
	table.SetFooter([]string{"", "Total", strconv.FormatUint(total, 10)})
	table.Render()
}
