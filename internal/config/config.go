// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/keruvi/keruvi/pkg/logger"
	"github.com/keruvi/keruvi/sdk/monitor"
)

const DefaultRootURL = "http://localhost:3000/"

// Config holds process-wide settings read from KERUVI_* environment variables.
type Config struct {
	Monitor  monitor.Config
	LogLevel logger.Level
}

// Load reads the monitor configuration from environment variables. Unset or
// unparsable variables fall back to the defaults of monitor.DefaultConfig.
func Load() Config {
	mon := monitor.DefaultConfig(getEnvString("KERUVI_ROOT_URL", DefaultRootURL))
	mon.Path = os.Getenv("KERUVI_PATH")
	mon.ModelID = os.Getenv("KERUVI_MODEL_ID")

	mon.UseBatchCallback = getEnvBool("KERUVI_BATCH_CALLBACK", mon.UseBatchCallback)
	mon.UseEpochCallback = getEnvBool("KERUVI_EPOCH_CALLBACK", mon.UseEpochCallback)
	mon.UseTrainCallback = getEnvBool("KERUVI_TRAIN_CALLBACK", mon.UseTrainCallback)

	mon.Timeout = getEnvDuration("KERUVI_TIMEOUT", 0)
	mon.MaxRetries = getEnvInt("KERUVI_MAX_RETRIES", 0)
	mon.RetryInitialInterval = getEnvDuration("KERUVI_RETRY_INITIAL_INTERVAL", 500*time.Millisecond)
	mon.RetryMaxElapsed = getEnvDuration("KERUVI_RETRY_MAX_ELAPSED", 30*time.Second)
	mon.RequireSuccess = getEnvBool("KERUVI_REQUIRE_SUCCESS", false)
	mon.BatchRate = getEnvFloat("KERUVI_BATCH_RATE", 0)
	mon.BatchBurst = getEnvInt("KERUVI_BATCH_BURST", 1)

	level, err := logger.ParseLevel(os.Getenv("KERUVI_LOG_LEVEL"))
	if err != nil {
		logger.WarnCtx("CONFIG", "%v, using INFO", err)
	}

	return Config{
		Monitor:  mon,
		LogLevel: level,
	}
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "true" || val == "1" || val == "yes" {
			return true
		}
		if val == "false" || val == "0" || val == "no" {
			return false
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
