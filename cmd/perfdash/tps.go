package main

import (
	"fmt"
	"io"
	"time"

	"github.com/bnb-chain/perf-dashboard/metrics"
)

// tpsGasDisplayer prints per-block transaction and gas figures together with
// the throughput averaged since the first block it saw.
type tpsGasDisplayer struct {
	now func() time.Time

	start    time.Time
	blocks   uint64
	totalTxs uint64
	totalGas uint64
}

func newTpsGasDisplayer() *tpsGasDisplayer {
	return &tpsGasDisplayer{now: time.Now}
}

func (d *tpsGasDisplayer) Print(w io.Writer, blockNumber uint64, record metrics.TpsGasRecord) {
	now := d.now()
	if d.blocks == 0 {
		d.start = now
	}
	d.blocks++
	d.totalTxs += record.Txs
	d.totalGas += record.Gas

	fmt.Fprintf(w, "Block number: %d, txs: %d, gas: %d", blockNumber, record.Txs, record.Gas)
	if elapsed := now.Sub(d.start).Seconds(); elapsed > 0 {
		fmt.Fprintf(w, ", TPS: %.3f, MGas/s: %.3f", float64(d.totalTxs)/elapsed, float64(d.totalGas)/elapsed/1e6)
	}
	fmt.Fprintln(w)
}
