// perfdash renders the per-block performance metrics of the execution engine.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/bnb-chain/perf-dashboard/common/gopool"
	"github.com/bnb-chain/perf-dashboard/perf"
	"github.com/urfave/cli/v2"
)

const (
	configCategory    = "CONFIG"
	dashboardCategory = "DASHBOARD"
	loggingCategory   = "LOGGING"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: configCategory,
	}
	familiesFlag = &cli.StringFlag{
		Name:     "families",
		Usage:    familiesUsage(),
		Category: dashboardCategory,
	}
	colorFlag = &cli.BoolFlag{
		Name:     "color",
		Usage:    "Colour report titles when stdout is a terminal",
		Category: dashboardCategory,
	}
	cpuFreqFlag = &cli.Uint64Flag{
		Name:     "cpu.freq",
		Usage:    "Cycle counter frequency in Hz used to convert cycles to time (0 = detect)",
		Category: dashboardCategory,
	}
	poolSizeFlag = &cli.IntFlag{
		Name:     "pool.size",
		Usage:    "Maximum number of concurrent event producers",
		Category: dashboardCategory,
	}
	progressIntervalFlag = &cli.DurationFlag{
		Name:     "progress.interval",
		Usage:    "Log dashboard progress at most once per interval (0 = every 100 events)",
		Category: dashboardCategory,
	}
	verbosityFlag = &cli.StringFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace, or a level name",
		Category: loggingCategory,
	}
	logFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Write logs to a file instead of stderr",
		Category: loggingCategory,
	}
	logRotateFlag = &cli.BoolFlag{
		Name:     "log.rotate",
		Usage:    "Rotate the log file by size",
		Category: loggingCategory,
	}
	logMaxSizeFlag = &cli.IntFlag{
		Name:     "log.maxsize",
		Usage:    "Maximum size in MB of a log file before it is rotated",
		Category: loggingCategory,
	}
	logRotateHoursFlag = &cli.UintFlag{
		Name:     "log.rotatehours",
		Usage:    "Number of hours to split log files (0 = never)",
		Category: loggingCategory,
	}

	globalFlags = []cli.Flag{
		configFileFlag,
		familiesFlag,
		colorFlag,
		cpuFreqFlag,
		poolSizeFlag,
		progressIntervalFlag,
		verbosityFlag,
		logFileFlag,
		logRotateFlag,
		logMaxSizeFlag,
		logRotateHoursFlag,
	}
)

func familiesUsage() string {
	vars := make([]string, 0, len(perf.AllFamilies()))
	for _, f := range perf.AllFamilies() {
		vars = append(vars, perf.EnvFlag(f))
	}
	return fmt.Sprintf(`Comma separated metric families to report (cache, opcode, execution, tps_gas) or "all". Overrides %s`,
		strings.Join(vars, ", "))
}

var app = &cli.App{
	Name:  "perfdash",
	Usage: "render execution engine performance metrics",
	Flags: globalFlags,
	Commands: []*cli.Command{
		replayCommand,
		demoCommand,
		dumpConfigCommand,
	},
}

func main() {
	err := app.Run(os.Args)
	gopool.Release()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
