package main

import (
	"bufio"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
	"unicode"

	"github.com/bnb-chain/perf-dashboard/common/cycles"
	"github.com/bnb-chain/perf-dashboard/common/gopool"
	"github.com/bnb-chain/perf-dashboard/log"
	"github.com/bnb-chain/perf-dashboard/perf"
	"github.com/naoina/toml"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var dumpConfigCommand = &cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Export configuration values in a TOML format",
	ArgsUsage:   "<dumpfile (optional)>",
	Description: `Export configuration values in TOML format (to stdout by default).`,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return errors.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type dashboardConfig struct {
	Families         string
	Color            bool
	ProgressInterval time.Duration // 0 means every 100 events
}

type cyclesConfig struct {
	FrequencyHz uint64 // 0 means detect
}

type logConfig struct {
	Verbosity   int
	File        string
	Rotate      bool
	RotateHours uint
	MaxSizeMB   int
}

type poolConfig struct {
	Size int
}

type perfdashConfig struct {
	Dashboard dashboardConfig
	Cycles    cyclesConfig
	Log       logConfig
	Pool      poolConfig
}

var defaultConfig = perfdashConfig{
	Dashboard: dashboardConfig{Families: "all"},
	Log: logConfig{
		Verbosity: 3,
		MaxSizeMB: 100,
	},
	Pool: poolConfig{Size: 16},
}

func loadConfig(file string, cfg *perfdashConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig resolves the configuration. Later sources win: defaults, the
// config file, METRICS_*_ENABLED variables, then command line flags. The
// returned config carries the resolved family list.
func makeConfig(ctx *cli.Context) (perfdashConfig, perf.Families, error) {
	cfg := defaultConfig
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, 0, errors.Wrap(err, "load config")
		}
	}
	families, err := perf.ParseFamilies(cfg.Dashboard.Families)
	if err != nil {
		return cfg, 0, errors.Wrap(err, "Dashboard.Families")
	}
	families = perf.FamiliesFromEnv(families)
	if ctx.IsSet(familiesFlag.Name) {
		if families, err = perf.ParseFamilies(ctx.String(familiesFlag.Name)); err != nil {
			return cfg, 0, errors.Wrapf(err, "--%s", familiesFlag.Name)
		}
	}
	cfg.Dashboard.Families = families.String()
	if err := applyFlags(ctx, &cfg); err != nil {
		return cfg, 0, err
	}
	return cfg, families, nil
}

// parseVerbosity accepts a verbosity number or a level name such as "debug".
func parseVerbosity(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	lvl, err := log.LvlFromString(s)
	if err != nil {
		return 0, err
	}
	v := 0
	for log.FromLegacyLevel(v) != lvl {
		v++
	}
	return v, nil
}

func applyFlags(ctx *cli.Context, cfg *perfdashConfig) error {
	if ctx.IsSet(colorFlag.Name) {
		cfg.Dashboard.Color = ctx.Bool(colorFlag.Name)
	}
	if ctx.IsSet(cpuFreqFlag.Name) {
		cfg.Cycles.FrequencyHz = ctx.Uint64(cpuFreqFlag.Name)
	}
	if ctx.IsSet(poolSizeFlag.Name) {
		cfg.Pool.Size = ctx.Int(poolSizeFlag.Name)
	}
	if ctx.IsSet(progressIntervalFlag.Name) {
		cfg.Dashboard.ProgressInterval = ctx.Duration(progressIntervalFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		v, err := parseVerbosity(ctx.String(verbosityFlag.Name))
		if err != nil {
			return errors.Wrapf(err, "--%s", verbosityFlag.Name)
		}
		cfg.Log.Verbosity = v
	}
	if ctx.IsSet(logFileFlag.Name) {
		cfg.Log.File = ctx.String(logFileFlag.Name)
	}
	if ctx.IsSet(logRotateFlag.Name) {
		cfg.Log.Rotate = ctx.Bool(logRotateFlag.Name)
	}
	if ctx.IsSet(logMaxSizeFlag.Name) {
		cfg.Log.MaxSizeMB = ctx.Int(logMaxSizeFlag.Name)
	}
	if ctx.IsSet(logRotateHoursFlag.Name) {
		cfg.Log.RotateHours = ctx.Uint(logRotateHoursFlag.Name)
	}
	return nil
}

// setup resolves the configuration and applies it to the process wide
// logger, cycle converter and goroutine pool. The returned function flushes
// the log output.
func setup(ctx *cli.Context) (perfdashConfig, perf.Families, func(), error) {
	cfg, families, err := makeConfig(ctx)
	if err != nil {
		return cfg, 0, nil, err
	}
	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return cfg, 0, nil, err
	}
	hz := cfg.Cycles.FrequencyHz
	if hz == 0 {
		detected, err := cycles.DetectFrequency()
		if err != nil || detected == 0 {
			log.Warn("Failed to detect CPU frequency, using default", "hz", cycles.DefaultFrequencyHz, "err", err)
		}
		hz = detected
	}
	cycles.SetDefault(cycles.NewConverter(hz))
	gopool.Resize(cfg.Pool.Size)

	log.Info("Dashboard configured", "families", families.String(), "hz", cycles.Default().Hz, "pool", gopool.Cap())
	return cfg, families, closeLog, nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, _, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	_, err = dump.Write(out)
	return err
}
