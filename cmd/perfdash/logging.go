package main

import (
	"io"
	"os"

	"github.com/bnb-chain/perf-dashboard/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logBufferLines = 10000

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// setupLogging installs the root logger. Logs go to stderr unless a file is
// configured, in which case the file is either rotated by size through
// lumberjack or written asynchronously and split every RotateHours.
func setupLogging(cfg logConfig) (func(), error) {
	var (
		output   io.Writer = colorable.NewColorableStderr()
		useColor           = isTerminal(os.Stderr) && os.Getenv("TERM") != "dumb"
		closer             = func() {}
	)
	if cfg.File != "" {
		useColor = false
		if cfg.Rotate {
			rotator := &lumberjack.Logger{
				Filename: cfg.File,
				MaxSize:  cfg.MaxSizeMB,
			}
			output = rotator
			closer = func() { rotator.Close() }
		} else {
			writer := log.NewAsyncFileWriter(cfg.File, logBufferLines, cfg.RotateHours)
			if err := writer.Start(); err != nil {
				return nil, err
			}
			output = writer
			closer = writer.Stop
		}
	}
	handler := log.NewTerminalHandlerWithLevel(output, log.FromLegacyLevel(cfg.Verbosity), useColor)
	log.SetDefault(log.NewLogger(handler))
	return closer, nil
}

// reportWriter is where the dashboard prints its reports.
func reportWriter(color bool) (io.Writer, bool) {
	if color && isTerminal(os.Stdout) {
		return colorable.NewColorableStdout(), true
	}
	return os.Stdout, false
}
