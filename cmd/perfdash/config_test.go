package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnb-chain/perf-dashboard/perf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.toml", `
[Dashboard]
Families = "cache,opcode"
Color = true

[Cycles]
FrequencyHz = 3000000000

[Log]
Verbosity = 4
`)
	cfg := defaultConfig
	require.NoError(t, loadConfig(path, &cfg))
	assert.Equal(t, "cache,opcode", cfg.Dashboard.Families)
	assert.True(t, cfg.Dashboard.Color)
	assert.Equal(t, uint64(3_000_000_000), cfg.Cycles.FrequencyHz)
	assert.Equal(t, 4, cfg.Log.Verbosity)
	assert.Equal(t, defaultConfig.Log.MaxSizeMB, cfg.Log.MaxSizeMB)
	assert.Equal(t, defaultConfig.Pool, cfg.Pool)
}

func TestLoadConfigUnknownField(t *testing.T) {
	path := writeFile(t, "config.toml", "[Dashboard]\nBogus = 1\n")
	cfg := defaultConfig
	err := loadConfig(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Bogus' is not defined")
}

func TestDumpConfigPrecedence(t *testing.T) {
	for _, key := range []perf.Family{perf.FamilyCache, perf.FamilyExecution, perf.FamilyTpsGas} {
		t.Setenv(perf.EnvFlag(key), "")
	}
	t.Setenv(perf.EnvFlag(perf.FamilyOpcode), "false")
	in := writeFile(t, "in.toml", "[Dashboard]\nFamilies = \"cache,opcode\"\n\n[Pool]\nSize = 2\n")

	dump := func(args ...string) perfdashConfig {
		out := filepath.Join(t.TempDir(), "out.toml")
		argv := append([]string{"perfdash", "--config", in}, args...)
		require.NoError(t, app.Run(append(argv, "dumpconfig", out)))

		var cfg perfdashConfig
		require.NoError(t, loadConfig(out, &cfg))
		return cfg
	}

	cfg := dump()
	assert.Equal(t, "cache", cfg.Dashboard.Families)
	assert.Equal(t, 2, cfg.Pool.Size)

	cfg = dump("--families", "opcode,tps_gas", "--pool.size", "8", "--cpu.freq", "1000")
	assert.Equal(t, "opcode,tps_gas", cfg.Dashboard.Families)
	assert.Equal(t, 8, cfg.Pool.Size)
	assert.Equal(t, uint64(1000), cfg.Cycles.FrequencyHz)
}

func TestDumpConfigVerbosityAndProgress(t *testing.T) {
	dump := func(args ...string) (perfdashConfig, error) {
		out := filepath.Join(t.TempDir(), "out.toml")
		argv := append([]string{"perfdash"}, args...)
		if err := app.Run(append(argv, "dumpconfig", out)); err != nil {
			return perfdashConfig{}, err
		}
		var cfg perfdashConfig
		require.NoError(t, loadConfig(out, &cfg))
		return cfg, nil
	}

	cfg, err := dump("--verbosity", "debug", "--progress.interval", "2s")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Log.Verbosity)
	assert.Equal(t, 2*time.Second, cfg.Dashboard.ProgressInterval)

	cfg, err = dump("--verbosity", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Log.Verbosity)
	assert.Zero(t, cfg.Dashboard.ProgressInterval)

	_, err = dump("--verbosity", "loud")
	assert.ErrorContains(t, err, "unknown level: loud")
}

func TestParseVerbosity(t *testing.T) {
	for in, want := range map[string]int{
		"crit": 0, "error": 1, "warn": 2, "info": 3, "debug": 4, "trace": 5, "3": 3,
	} {
		got, err := parseVerbosity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestFamiliesUsageNamesEnvVars(t *testing.T) {
	for _, f := range perf.AllFamilies() {
		assert.Contains(t, familiesFlag.Usage, perf.EnvFlag(f))
	}
}
