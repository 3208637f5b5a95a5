package perf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilies(t *testing.T) {
	set := NewFamilies(FamilyCache, FamilyTpsGas)
	assert.True(t, set.Has(FamilyCache))
	assert.False(t, set.Has(FamilyOpcode))
	assert.Equal(t, []Family{FamilyCache, FamilyTpsGas}, set.List())
	assert.Equal(t, "cache,tps_gas", set.String())

	set = set.Without(FamilyCache).With(FamilyExecution)
	assert.Equal(t, "execution,tps_gas", set.String())

	for _, f := range AllFamilies() {
		assert.True(t, AllEnabled.Has(f), f.String())
	}
	assert.Equal(t, "family(9)", Family(9).String())
}

func TestParseFamilies(t *testing.T) {
	set, err := ParseFamilies(" cache, OPCODE ")
	require.NoError(t, err)
	assert.Equal(t, NewFamilies(FamilyCache, FamilyOpcode), set)

	set, err = ParseFamilies("all")
	require.NoError(t, err)
	assert.Equal(t, AllEnabled, set)

	set, err = ParseFamilies("")
	require.NoError(t, err)
	assert.Empty(t, set.List())

	_, err = ParseFamilies("cache,gpu")
	assert.ErrorIs(t, err, ErrUnknownFamily)
	assert.Contains(t, err.Error(), `"gpu"`)
}

func TestFamiliesFromEnv(t *testing.T) {
	t.Setenv(EnvFlag(FamilyCache), "false")
	t.Setenv(EnvFlag(FamilyOpcode), "1")
	t.Setenv(EnvFlag(FamilyExecution), "not-a-bool")
	t.Setenv(EnvFlag(FamilyTpsGas), "")

	got := FamiliesFromEnv(NewFamilies(FamilyCache, FamilyExecution))
	assert.Equal(t, NewFamilies(FamilyOpcode, FamilyExecution), got)
	assert.Equal(t, "METRICS_CACHE_RECORD_ENABLED", EnvFlag(FamilyCache))
}
