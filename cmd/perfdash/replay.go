package main

import (
	"io"
	"os"
	"time"

	"github.com/bnb-chain/perf-dashboard/common/gopool"
	"github.com/bnb-chain/perf-dashboard/log"
	"github.com/bnb-chain/perf-dashboard/perf"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var replayCommand = &cli.Command{
	Action:    replay,
	Name:      "replay",
	Usage:     "Render metric events recorded as JSON lines",
	ArgsUsage: "<file> [file...]",
	Description: `
Reads the files concurrently, one producer per file, and prints a report for
each event as it arrives. Use "-" to read from stdin. Malformed lines are
skipped and logged at most once per second per file. A per-family event
summary is written to stderr at the end.`,
}

// malformedLogInterval throttles the warnings about skipped lines of one file.
const malformedLogInterval = time.Second

// replayPoolSize caps the configured pool by the number of producers worth
// running for the given number of files.
func replayPoolSize(configured, files int) int {
	if threads := gopool.Threads(files); threads < configured {
		return threads
	}
	return configured
}

func replay(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no event files given")
	}
	cfg, families, closeLog, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeLog()
	gopool.Resize(replayPoolSize(cfg.Pool.Size, ctx.NArg()))

	stats := newEventStats()
	producers := make([]producer, 0, ctx.NArg())
	for _, path := range ctx.Args().Slice() {
		path := path
		producers = append(producers, func(tx *perf.EventSender) error {
			return replayFile(path, tx, stats)
		})
	}
	err = runDashboard(cfg, families, producers)
	stats.render(os.Stderr, families)
	return err
}

func replayFile(path string, tx *perf.EventSender, stats *eventStats) error {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "open event file")
		}
		defer f.Close()
		in = f
	}
	return replayEvents(path, in, tx, stats)
}

func replayEvents(name string, in io.Reader, tx *perf.EventSender, stats *eventStats) error {
	reader := perf.NewEventReader(in)
	malformed := log.NewInterval(malformedLogInterval)
	for {
		ev, err := reader.Next()
		if err == io.EOF {
			log.Debug("Replayed event file", "file", name, "lines", reader.Line())
			return nil
		}
		if err != nil {
			stats.addMalformed()
			log.WarnBy(malformed, "Skipping malformed metric event", "file", name, "err", err)
			continue
		}
		if err := tx.Send(ev); err != nil {
			return err
		}
		stats.add(ev.Family())
	}
}
