// Package config loads the service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Service struct {
		Name string `yaml:"name"`
	} `yaml:"service"`
	Http struct {
		Port            int           `yaml:"port"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
		MaxBodyBytes    int64         `yaml:"max_body_bytes"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"http"`
	Log    LogConfig `yaml:"log"`
	Models struct {
		Freshness string `yaml:"freshness"`
		Spoilage  string `yaml:"spoilage"`
		Priority  string `yaml:"priority"`
		CacheSize int    `yaml:"cache_size"`
	} `yaml:"models"`
	Route struct {
		Database string    `yaml:"database"`
		Segments []Segment `yaml:"segments"`
	} `yaml:"route"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Segment is one leg of the delivery route.
type Segment struct {
	ID          string  `yaml:"id"`
	Origin      string  `yaml:"origin"`
	Destination string  `yaml:"destination"`
	DistanceKm  float64 `yaml:"distance_km"`
	SpeedKmh    float64 `yaml:"speed_kmh"`
	Congestion  string  `yaml:"congestion"`
}

func Default() *Config {
	var c Config
	c.Service.Name = "urbanflux-ai"
	c.Http.Port = 8000
	c.Http.AllowedOrigins = []string{"*"}
	c.Http.MaxBodyBytes = 1 << 20
	c.Http.ReadTimeout = 15 * time.Second
	c.Http.WriteTimeout = 15 * time.Second
	c.Http.ShutdownTimeout = 5 * time.Second
	c.Log = LogConfig{
		Level:      "info",
		Format:     "json",
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 28,
	}
	c.Models.Freshness = "models/freshness_model.json"
	c.Models.Spoilage = "models/spoilage_model.json"
	c.Models.Priority = "models/priority_model.json"
	return &c
}

// Load reads path over the defaults, applies the PORT environment
// variable, and resolves relative file paths against the config file's
// directory. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	base := "."
	if path != "" {
		payload, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(payload, c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			base = filepath.Dir(path)
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Http.Port = p
	}
	c.resolvePaths(base)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.Models.Freshness, &c.Models.Spoilage, &c.Models.Priority, &c.Route.Database, &c.Log.File} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.Http.Port)
	}
	if c.Models.CacheSize < 0 {
		return errors.New("models.cache_size must not be negative")
	}
	for i, s := range c.Route.Segments {
		if s.DistanceKm < 0 {
			return fmt.Errorf("route.segments[%d]: distance_km must not be negative", i)
		}
		if s.SpeedKmh <= 0 {
			return fmt.Errorf("route.segments[%d]: speed_kmh must be positive", i)
		}
	}
	return nil
}
