package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv layers environment overrides on top of cfg.
// DIFFICULTY swaps the gameplay preset but keeps tick and server settings.
func FromEnv(cfg Config) Config {
	if mode := strings.ToLower(strings.TrimSpace(os.Getenv("DIFFICULTY"))); mode != "" {
		preset := Preset(mode)
		preset.Tick = cfg.Tick
		preset.Server = cfg.Server
		preset.Log = cfg.Log
		cfg = preset
	}

	if val := getEnvInt("STAIRWELL_MIN_TEAM"); val > 0 {
		cfg.Pool.MinTeam = val
	}
	if val := getEnvInt("STAIRWELL_MAX_ENCOUNTERS"); val > 0 {
		cfg.Encounters.MaxConcurrent = val
	}
	if val := getEnvInt("STAIRWELL_TICK_MS"); val > 0 {
		cfg.Tick.FixedIntervalMs = val
	}
	if val := getEnvInt("STAIRWELL_OFFLINE_CAP"); val > 0 {
		cfg.Tick.OfflineMaxTicks = val
	}
	if val := getEnvInt("STAIRWELL_LOG_RETENTION"); val > 0 {
		cfg.Log.Retention = val
	}
	if val := getEnvInt("STAIRWELL_SEED"); val != 0 {
		cfg.Tick.Seed = int64(val)
	}
	if val := strings.TrimSpace(os.Getenv("STAIRWELL_ADDR")); val != "" {
		cfg.Server.Addr = val
	}
	if val := strings.TrimSpace(os.Getenv("STAIRWELL_SAVE_PATH")); val != "" {
		cfg.Server.SavePath = val
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
