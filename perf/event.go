package perf

import (
	"github.com/bnb-chain/perf-dashboard/cachemetrics"
	"github.com/bnb-chain/perf-dashboard/metrics"
)

// MetricEvent is emitted by the execution engine once per block and family.
// The set of implementations is closed: every variant is listed in
// EventHandler, so adding one breaks every handler until it is handled.
type MetricEvent interface {
	// Block returns the number of the block the counters were taken at.
	Block() uint64
	// Family reports which metric family produced the event.
	Family() Family
	// Accept calls the handler method matching the variant.
	Accept(h EventHandler)

	isMetricEvent()
}

// EventHandler has one method per MetricEvent variant.
type EventHandler interface {
	HandleExecutionStageTime(ev *ExecutionStageTime)
	HandleBlockTpsAndGas(ev *BlockTpsAndGas)
	HandleOpcodeInfo(ev *OpcodeInfo)
	HandleCacheDbInfo(ev *CacheDbInfo)
}

// ExecutionStageTime carries the per-stage execution time of a block.
type ExecutionStageTime struct {
	BlockNumber uint64
	Record      *metrics.ExecutionDurationRecord
}

// BlockTpsAndGas carries the transaction and gas totals of a block.
type BlockTpsAndGas struct {
	BlockNumber uint64
	Record      metrics.TpsGasRecord
}

// OpcodeInfo carries the instruction profile of a block.
type OpcodeInfo struct {
	BlockNumber uint64
	Record      *metrics.OpcodeRecord
}

// CacheDbInfo carries the cached state database counters and the state size.
type CacheDbInfo struct {
	BlockNumber uint64
	Size        uint64
	Record      *cachemetrics.CacheDbRecord
}

func (ev *ExecutionStageTime) Block() uint64         { return ev.BlockNumber }
func (ev *ExecutionStageTime) Family() Family        { return FamilyExecution }
func (ev *ExecutionStageTime) Accept(h EventHandler) { h.HandleExecutionStageTime(ev) }
func (*ExecutionStageTime) isMetricEvent()           {}

func (ev *BlockTpsAndGas) Block() uint64         { return ev.BlockNumber }
func (ev *BlockTpsAndGas) Family() Family        { return FamilyTpsGas }
func (ev *BlockTpsAndGas) Accept(h EventHandler) { h.HandleBlockTpsAndGas(ev) }
func (*BlockTpsAndGas) isMetricEvent()           {}

func (ev *OpcodeInfo) Block() uint64         { return ev.BlockNumber }
func (ev *OpcodeInfo) Family() Family        { return FamilyOpcode }
func (ev *OpcodeInfo) Accept(h EventHandler) { h.HandleOpcodeInfo(ev) }
func (*OpcodeInfo) isMetricEvent()           {}

func (ev *CacheDbInfo) Block() uint64         { return ev.BlockNumber }
func (ev *CacheDbInfo) Family() Family        { return FamilyCache }
func (ev *CacheDbInfo) Accept(h EventHandler) { h.HandleCacheDbInfo(ev) }
func (*CacheDbInfo) isMetricEvent()           {}

var (
	_ MetricEvent = (*ExecutionStageTime)(nil)
	_ MetricEvent = (*BlockTpsAndGas)(nil)
	_ MetricEvent = (*OpcodeInfo)(nil)
	_ MetricEvent = (*CacheDbInfo)(nil)
)
