package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/z3c0/vistos-legacy/internal/components/configutil"
	"github.com/z3c0/vistos-legacy/internal/components/telemetry"
)

const configName = "vistos.json5"

type CacheConfig struct {
	// Dir keeps responses on disk between runs, when empty responses are only kept in memory.
	Dir           string `json:"dir"`
	TtlMinutes    int    `json:"ttl_minutes"`
	MemoryEntries int    `json:"memory_entries"`
}

type Config struct {
	GovinfoApiKey     string               `json:"govinfo_api_key"`
	PropublicaApiKey  string               `json:"propublica_api_key"`
	BioguideBaseUrl   string               `json:"bioguide_base_url"`
	GovinfoBaseUrl    string               `json:"govinfo_base_url"`
	PropublicaBaseUrl string               `json:"propublica_base_url"`
	RequestsPerSecond float64              `json:"requests_per_second"`
	TimeoutSeconds    int                  `json:"timeout_seconds"`
	Cache             CacheConfig          `json:"cache"`
	Otlp              telemetry.OtlpConfig `json:"otlp"`
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) CacheTtl() time.Duration {
	if c.Cache.TtlMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Cache.TtlMinutes) * time.Minute
}

// loadConfig reads path, or searches the working directory and its parents for vistos.json5 when
// path is empty. A missing config file is not an error, every field has a default.
func loadConfig(path string) (Config, error) {
	var cfg Config
	var err error
	if path != "" {
		cfg, err = configutil.ReadConfig[Config](path)
	} else {
		cfg, _, err = configutil.ReadRecursively[Config](configName)
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
	}
	if err != nil {
		return Config{}, err
	}

	if cfg.GovinfoApiKey == "" {
		cfg.GovinfoApiKey = os.Getenv("GOVINFO_API_KEY")
	}
	if cfg.PropublicaApiKey == "" {
		cfg.PropublicaApiKey = os.Getenv("PROPUBLICA_API_KEY")
	}
	return cfg, nil
}
