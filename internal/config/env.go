package config

import (
	"os"
	"strconv"
)

// FromEnv applies environment overrides on top of the given config.
// Unset or unreadable variables leave the config untouched.
func FromEnv(cfg *Config) *Config {
	if cfg == nil {
		cfg = Default()
	}

	if val := getEnvInt("PORT"); val > 0 {
		cfg.Server.Port = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		cfg.Server.DataDir = val
	}
	if val := os.Getenv("ALLOW_GLOBAL_SINGLE_ACTIVE"); val != "" {
		cfg.Engine.AllowGlobalSingleActive = val == "1" || val == "true"
	}
	if val := getEnvInt("DEFAULT_DURATION_MIN"); val > 0 {
		cfg.Scheduling.DefaultDurationMin = val
	}
	if val := getEnvInt("SLOT_STEP_MIN"); val > 0 {
		cfg.Scheduling.SlotStepMin = val
	}
	if val := getEnvInt("SLOT_SUGGESTION_LIMIT"); val > 0 {
		cfg.Scheduling.SlotSuggestionLimit = val
	}
	if val := getEnvInt("SWEEP_INTERVAL_SECONDS"); val > 0 {
		cfg.Sweep.IntervalSeconds = val
	}

	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
