package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/bnb-chain/perf-dashboard/metrics"
	"github.com/stretchr/testify/assert"
)

func TestTpsGasDisplayer(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	d := newTpsGasDisplayer()
	d.now = func() time.Time { return clock }

	var buf bytes.Buffer
	d.Print(&buf, 10, metrics.TpsGasRecord{Txs: 100, Gas: 2_000_000})
	assert.Equal(t, "Block number: 10, txs: 100, gas: 2000000\n", buf.String())

	buf.Reset()
	clock = clock.Add(2 * time.Second)
	d.Print(&buf, 11, metrics.TpsGasRecord{Txs: 300, Gas: 4_000_000})
	assert.Equal(t, "Block number: 11, txs: 300, gas: 4000000, TPS: 200.000, MGas/s: 3.000\n", buf.String())
	assert.Equal(t, uint64(2), d.blocks)
}
