package perf

import (
	"os"
	"strconv"
)

func getEnvBool(key string) (bool, error) {
	s := os.Getenv(key)
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, err
	}
	return v, nil
}

// envFlags maps every family to the variable that switches it on or off.
var envFlags = map[Family]string{
	FamilyCache:     "METRICS_CACHE_RECORD_ENABLED",
	FamilyOpcode:    "METRICS_OPCODE_ENABLED",
	FamilyExecution: "METRICS_EXECUTION_DURATION_ENABLED",
	FamilyTpsGas:    "METRICS_TPS_GAS_ENABLED",
}

// EnvFlag returns the environment variable controlling f.
func EnvFlag(f Family) string {
	return envFlags[f]
}

// FamiliesFromEnv applies the METRICS_*_ENABLED variables on top of base.
// Unset or unparsable variables leave the family as it is in base.
func FamiliesFromEnv(base Families) Families {
	out := base
	for _, f := range AllFamilies() {
		v, err := getEnvBool(envFlags[f])
		if err != nil {
			continue
		}
		if v {
			out = out.With(f)
		} else {
			out = out.Without(f)
		}
	}
	return out
}
