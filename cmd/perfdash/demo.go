package main

import (
	"bufio"
	"math/rand"
	"os"
	"time"

	"github.com/bnb-chain/perf-dashboard/cachemetrics"
	"github.com/bnb-chain/perf-dashboard/common/cycles"
	"github.com/bnb-chain/perf-dashboard/metrics"
	"github.com/bnb-chain/perf-dashboard/perf"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var (
	blocksFlag = &cli.Uint64Flag{
		Name:  "blocks",
		Usage: "Number of blocks to synthesize",
		Value: 10,
	}
	startFlag = &cli.Uint64Flag{
		Name:  "start",
		Usage: "Number of the first synthesized block",
		Value: 1,
	}
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Seed of the counter generator",
		Value: 1,
	}
	outFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "Write the events as JSON lines to this file instead of rendering them",
	}

	demoCommand = &cli.Command{
		Action: demo,
		Name:   "demo",
		Usage:  "Render synthesized metric events",
		Flags:  []cli.Flag{blocksFlag, startFlag, seedFlag, outFlag},
		Description: `
Synthesizes per-block counters for every metric family, one producer per
family, and renders them. With --out the events are recorded instead, in the
format read by the replay command.`,
	}
)

func demo(ctx *cli.Context) error {
	cfg, families, closeLog, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeLog()

	var (
		start  = ctx.Uint64(startFlag.Name)
		blocks = ctx.Uint64(blocksFlag.Name)
		seed   = ctx.Int64(seedFlag.Name)
	)
	if out := ctx.String(outFlag.Name); out != "" {
		return recordDemo(out, start, blocks, seed)
	}

	stats := newEventStats()
	producers := make([]producer, 0, len(perf.AllFamilies()))
	for _, f := range perf.AllFamilies() {
		gen := newGenerator(f, seed)
		producers = append(producers, func(tx *perf.EventSender) error {
			for n := start; n < start+blocks; n++ {
				ev := gen.next(n)
				if err := tx.Send(ev); err != nil {
					return err
				}
				stats.add(ev.Family())
			}
			return nil
		})
	}
	err = runDashboard(cfg, families, producers)
	stats.render(os.Stderr, families)
	return err
}

// recordDemo writes the events of every family block by block.
func recordDemo(path string, start, blocks uint64, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create event file")
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	w := perf.NewEventWriter(buf)
	gens := make([]*generator, 0, len(perf.AllFamilies()))
	for _, fam := range perf.AllFamilies() {
		gens = append(gens, newGenerator(fam, seed))
	}
	for n := start; n < start+blocks; n++ {
		for _, gen := range gens {
			if err := w.Write(gen.next(n)); err != nil {
				return errors.Wrapf(err, "block %d", n)
			}
		}
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// Weighted instruction mix of the opcode generator.
var demoOpcodes = []struct {
	op     metrics.OpCode
	weight int
	cycles int
}{
	{0x60, 30, 40},   // PUSH1
	{0x80, 15, 35},   // DUP1
	{0x90, 12, 35},   // SWAP1
	{0x01, 10, 60},   // ADD
	{0x52, 8, 120},   // MSTORE
	{0x57, 8, 90},    // JUMPI
	{0x5b, 8, 20},    // JUMPDEST
	{0x54, 5, 4000},  // SLOAD
	{0x20, 3, 900},   // KECCAK256
	{0x55, 1, 12000}, // SSTORE
}

// generator synthesizes the counters of one family. Cache and opcode counters
// accumulate across blocks like the instrumentation does.
type generator struct {
	family perf.Family
	rng    *rand.Rand

	cache     *cachemetrics.CacheDbRecord
	opcode    *metrics.OpcodeRecord
	stateSize uint64
	cacheSize uint64
}

func newGenerator(f perf.Family, seed int64) *generator {
	return &generator{
		family:    f,
		rng:       rand.New(rand.NewSource(seed + int64(f))),
		cache:     cachemetrics.NewCacheDbRecord(),
		opcode:    metrics.NewOpcodeRecord(),
		stateSize: 1 << 20,
		cacheSize: 64 << 20,
	}
}

func (g *generator) next(block uint64) perf.MetricEvent {
	switch g.family {
	case perf.FamilyCache:
		return g.nextCache(block)
	case perf.FamilyOpcode:
		return g.nextOpcode(block)
	case perf.FamilyExecution:
		return g.nextExecution(block)
	default:
		return g.nextTpsGas(block)
	}
}

func (g *generator) nextCache(block uint64) perf.MetricEvent {
	hitRate := [cachemetrics.FunctionCount]float64{0.99, 0.9, 0.8, 0.7}
	accesses := 200 + g.rng.Intn(800)
	for i := 0; i < accesses; i++ {
		fn := cachemetrics.Function(g.rng.Intn(int(cachemetrics.FunctionCount)))
		if g.rng.Float64() < hitRate[fn] {
			g.cache.RecordHit(fn)
			continue
		}
		g.cache.RecordMiss(fn, uint64(g.rng.ExpFloat64()*8000))
	}
	g.stateSize += uint64(g.rng.Intn(4096))
	return &perf.CacheDbInfo{BlockNumber: block, Size: g.stateSize, Record: g.cache.Snapshot()}
}

func (g *generator) nextOpcode(block uint64) perf.MetricEvent {
	var totalWeight int
	for _, o := range demoOpcodes {
		totalWeight += o.weight
	}
	steps := 5000 + g.rng.Intn(20000)
	for i := 0; i < steps; i++ {
		pick := g.rng.Intn(totalWeight)
		for _, o := range demoOpcodes {
			if pick < o.weight {
				g.opcode.Record(o.op, uint64(float64(o.cycles)*(0.5+g.rng.Float64())))
				break
			}
			pick -= o.weight
		}
	}
	return &perf.OpcodeInfo{BlockNumber: block, Record: g.opcode.Copy()}
}

// nextExecution times the stages with the wall clock, as a node without a
// cycle counter does, and converts them at the configured rate.
func (g *generator) nextExecution(block uint64) perf.MetricEvent {
	var (
		conv    = cycles.Default()
		record  = &metrics.ExecutionDurationRecord{}
		fetch   = conv.FromDuration(time.Duration(500+g.rng.Intn(2000)) * time.Microsecond)
		execute = conv.FromDuration(time.Duration(10_000+g.rng.Intn(30_000)) * time.Microsecond)
		write   = conv.FromDuration(time.Duration(2_500+g.rng.Intn(5_000)) * time.Microsecond)
		misc    = conv.FromDuration(time.Duration(g.rng.Intn(1_000)) * time.Microsecond)
	)
	record.Add(metrics.StageFetchBlocks, fetch)
	record.Add(metrics.StageExecute, execute)
	record.Add(metrics.StageVerifyAndWrite, write)
	record.Add(metrics.StageTotal, fetch+execute+write+misc)

	g.cacheSize += uint64(g.rng.Intn(1 << 20))
	record.CacheSize = g.cacheSize
	return &perf.ExecutionStageTime{BlockNumber: block, Record: record}
}

func (g *generator) nextTpsGas(block uint64) perf.MetricEvent {
	txs := uint64(50 + g.rng.Intn(400))
	gas := txs*21000 + uint64(g.rng.Intn(5_000_000))
	return &perf.BlockTpsAndGas{BlockNumber: block, Record: metrics.TpsGasRecord{Txs: txs, Gas: gas}}
}
