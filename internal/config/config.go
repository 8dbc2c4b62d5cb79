package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr      string `yaml:"addr"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db"`
		TTL       string `yaml:"ttl"`
		ResultTTL string `yaml:"result_ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Results struct {
		// Backend is one of memory, redis, postgres or sqlite. Empty picks the
		// first configured of postgres, redis, sqlite, then memory.
		Backend string `yaml:"backend"`
	} `yaml:"results"`
	Quiz struct {
		Duration string `yaml:"duration"`
	} `yaml:"quiz"`
	Presenter struct {
		LoadDelay string `yaml:"load_delay"`
	} `yaml:"presenter"`
	Paywall struct {
		PaymentURL   string `yaml:"payment_url"`
		ClientUnlock bool   `yaml:"client_unlock"`
	} `yaml:"paywall"`
	Identity struct {
		Secret string `yaml:"secret"`
	} `yaml:"identity"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ResultsBackend resolves which store result records go to.
func (c Config) ResultsBackend() string {
	if c.Results.Backend != "" {
		return c.Results.Backend
	}
	switch {
	case c.Postgres.URL != "":
		return "postgres"
	case c.Redis.Addr != "":
		return "redis"
	case c.SQLite.Path != "":
		return "sqlite"
	default:
		return "memory"
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
