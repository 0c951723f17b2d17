package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type AppConfig struct {
	// Upstream endpoints. Empty means the provider default.
	NASAPowerBaseURL string
	ForecastBaseURL  string
	GeocodeBaseURL   string

	// GoogleGeocoderAPIKey switches geocoding from Nominatim to Google.
	GoogleGeocoderAPIKey string
	UserAgent            string

	DefaultLocation string

	GeocodeTimeout time.Duration
	WeatherTimeout time.Duration

	// UpstreamBreaker wraps upstream calls in a circuit breaker.
	UpstreamBreaker bool

	MissingSentinels []float64

	// ProbeInterval controls how often upstreams are probed (0 disables).
	ProbeInterval time.Duration

	// In-memory probe store retention.
	StoreMaxHistory int           // max number of results per source (0 = unlimited)
	StoreMaxAge     time.Duration // max age of results (0 = unlimited)

	LogLevel       string
	LogDevelopment bool

	Port string
}

// fileConfig mirrors the optional TOML file. Durations are strings such as
// "15s" so the file reads like the environment.
type fileConfig struct {
	NASAPowerBaseURL     string    `toml:"nasa_power_base_url"`
	ForecastBaseURL      string    `toml:"forecast_base_url"`
	GeocodeBaseURL       string    `toml:"geocode_base_url"`
	GoogleGeocoderAPIKey string    `toml:"google_geocoder_api_key"`
	UserAgent            string    `toml:"user_agent"`
	DefaultLocation      string    `toml:"default_location"`
	GeocodeTimeout       string    `toml:"geocode_timeout"`
	WeatherTimeout       string    `toml:"weather_timeout"`
	UpstreamBreaker      *bool     `toml:"upstream_breaker"`
	MissingSentinels     []float64 `toml:"missing_sentinels"`
	ProbeInterval        string    `toml:"probe_interval"`
	StoreMaxHistory      *int      `toml:"store_max_history"`
	StoreMaxAge          string    `toml:"store_max_age"`
	LogLevel             string    `toml:"log_level"`
	LogDevelopment       *bool     `toml:"log_development"`
	Port                 string    `toml:"port"`
}

// defaults returns the built-in values, which the config file and then the
// environment override.
func defaults() fileConfig {
	return fileConfig{
		UserAgent:       "BackspaceWeather/1.0",
		DefaultLocation: "New York, NY",
		GeocodeTimeout:  "15s",
		WeatherTimeout:  "30s",
		ProbeInterval:   "30m",
		StoreMaxAge:     "24h",
		LogLevel:        "info",
		Port:            "8080",
	}
}

// Load reads configuration from the optional CONFIG_FILE and the environment
// with sensible defaults.
func Load() (*AppConfig, error) {
	base := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := readFile(path, &base); err != nil {
			return nil, err
		}
	}

	cfg := &AppConfig{}

	cfg.NASAPowerBaseURL = getenvDefault("NASA_POWER_BASE_URL", base.NASAPowerBaseURL)
	cfg.ForecastBaseURL = getenvDefault("FORECAST_BASE_URL", base.ForecastBaseURL)
	cfg.GeocodeBaseURL = getenvDefault("GEOCODE_BASE_URL", base.GeocodeBaseURL)
	cfg.GoogleGeocoderAPIKey = getenvDefault("GOOGLE_GEOCODER_API_KEY", base.GoogleGeocoderAPIKey)
	cfg.UserAgent = getenvDefault("USER_AGENT", base.UserAgent)
	cfg.DefaultLocation = getenvDefault("DEFAULT_LOCATION", base.DefaultLocation)

	var err error
	if cfg.GeocodeTimeout, err = getenvDuration("GEOCODE_TIMEOUT", base.GeocodeTimeout); err != nil {
		return nil, err
	}
	if cfg.WeatherTimeout, err = getenvDuration("WEATHER_TIMEOUT", base.WeatherTimeout); err != nil {
		return nil, err
	}
	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", base.ProbeInterval); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", base.StoreMaxAge); err != nil {
		return nil, err
	}

	cfg.UpstreamBreaker = getenvBool("UPSTREAM_BREAKER", valueOr(base.UpstreamBreaker, false))
	cfg.LogDevelopment = getenvBool("LOG_DEVELOPMENT", valueOr(base.LogDevelopment, false))
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", valueOr(base.StoreMaxHistory, 48))
	cfg.LogLevel = getenvDefault("LOG_LEVEL", base.LogLevel)
	cfg.Port = getenvDefault("PORT", base.Port)

	cfg.MissingSentinels = base.MissingSentinels
	if v := os.Getenv("MISSING_SENTINELS"); v != "" {
		sentinels, err := parseSentinels(v)
		if err != nil {
			return nil, err
		}
		cfg.MissingSentinels = sentinels
	}

	return cfg, nil
}

func readFile(path string, into *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func parseSentinels(v string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MISSING_SENTINELS value %q: %w", part, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	raw := getenvDefault(key, def)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
