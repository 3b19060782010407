package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`
	Quiz struct {
		MaxRounds     int     `yaml:"maxRounds"`
		OptionCount   int     `yaml:"optionCount"`
		MinYear       int     `yaml:"minYear"`
		MaxYear       int     `yaml:"maxYear"`
		HighRating    float64 `yaml:"highRating"`
		RelaxedRating float64 `yaml:"relaxedRating"`
	} `yaml:"quiz"`
	Rounds struct {
		Source    string `yaml:"source"`
		RemoteURL string `yaml:"remoteURL"`
		Timeout   string `yaml:"timeout"`
		Retries   *int   `yaml:"retries"`
	} `yaml:"rounds"`
}

const (
	RoundsLocal  = "local"
	RoundsRemote = "remote"
)

// Default returns a config that runs fully in memory.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads YAML config from path and fills unset values with defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Quiz.MaxRounds <= 0 {
		c.Quiz.MaxRounds = 10
	}
	if c.Quiz.OptionCount <= 0 {
		c.Quiz.OptionCount = 4
	}
	if c.Quiz.MinYear == 0 && c.Quiz.MaxYear == 0 {
		c.Quiz.MinYear, c.Quiz.MaxYear = 1980, 2024
	}
	if c.Quiz.HighRating == 0 && c.Quiz.RelaxedRating == 0 {
		c.Quiz.HighRating, c.Quiz.RelaxedRating = 82, 80
	}
	if c.Rounds.Source == "" {
		c.Rounds.Source = RoundsLocal
	}
	if c.Rounds.Retries == nil {
		retries := 2
		c.Rounds.Retries = &retries
	}
	if *c.Rounds.Retries < 0 {
		*c.Rounds.Retries = 0
	}
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.Rounds.Source {
	case RoundsLocal:
	case RoundsRemote:
		if c.Rounds.RemoteURL == "" {
			return fmt.Errorf("rounds.remoteURL is required for the remote source")
		}
	default:
		return fmt.Errorf("unknown rounds.source %q", c.Rounds.Source)
	}
	if c.Quiz.RelaxedRating > c.Quiz.HighRating {
		return fmt.Errorf("quiz.relaxedRating %.1f above quiz.highRating %.1f", c.Quiz.RelaxedRating, c.Quiz.HighRating)
	}
	return nil
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
