// Package config provides configuration loading and structs for the Vitrine server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/vitrine/internal/ranking"
	"github.com/hyperjump/vitrine/internal/storage"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	History HistoryConfig `yaml:"history"`
	Modal   ModalConfig   `yaml:"modal"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig points at the YAML item catalog.
type CatalogConfig struct {
	Path             string `yaml:"path"`
	Watch            bool   `yaml:"watch"`
	ReloadDebounceMs int    `yaml:"reload_debounce_ms"`
}

// StorageConfig selects the key-value backend for search state.
type StorageConfig struct {
	Driver       string      `yaml:"driver"`
	DatabasePath string      `yaml:"database_path"`
	FilePath     string      `yaml:"file_path"`
	Redis        RedisConfig `yaml:"redis"`
}

// RedisConfig holds connection settings for the redis driver.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SearchConfig holds pipeline, suggestion and highlighting settings.
type SearchConfig struct {
	MaxResults          int                   `yaml:"max_results"`
	DebounceMs          int                   `yaml:"debounce_ms"`
	SuggestionThreshold float64               `yaml:"suggestion_threshold"`
	MaxSuggestions      int                   `yaml:"max_suggestions"`
	TechFilterThreshold float64               `yaml:"tech_filter_threshold"`
	HighlightOpen       string                `yaml:"highlight_open"`
	HighlightClose      string                `yaml:"highlight_close"`
	Ranking             ranking.RankingConfig `yaml:"ranking"`
}

// HistoryConfig holds limits for recent, logged and popular searches.
type HistoryConfig struct {
	Namespace      string `yaml:"namespace"`
	RecentLimit    int    `yaml:"recent_limit"`
	HistoryLimit   int    `yaml:"history_limit"`
	FrequencyLimit int    `yaml:"frequency_limit"`
	PopularLimit   int    `yaml:"popular_limit"`
}

// ModalConfig holds modal stack settings.
type ModalConfig struct {
	MaxModals      int `yaml:"max_modals"`
	BaseStackIndex int `yaml:"base_stack_index"`
}

// Debounce returns the search debounce as a duration.
func (s *SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// ReloadDebounce returns the catalog reload debounce as a duration.
func (c *CatalogConfig) ReloadDebounce() time.Duration {
	return time.Duration(c.ReloadDebounceMs) * time.Millisecond
}

// Options converts the storage section into storage.Options.
func (s *StorageConfig) Options() storage.Options {
	return storage.Options{
		Driver:        s.Driver,
		DatabasePath:  s.DatabasePath,
		FilePath:      s.FilePath,
		RedisAddr:     s.Redis.Addr,
		RedisPassword: s.Redis.Password,
		RedisDB:       s.Redis.DB,
	}
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Catalog.Path = expandPath(cfg.Catalog.Path, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.FilePath = expandPath(cfg.Storage.FilePath, configDir)

	return &cfg, nil
}

// Validate rejects settings that defaults cannot repair.
func Validate(cfg *Config) error {
	switch cfg.Storage.Driver {
	case storage.DriverMemory, storage.DriverSQLite, storage.DriverFile, storage.DriverRedis:
	default:
		return fmt.Errorf("invalid config: unknown storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server port %d out of range", cfg.Server.Port)
	}
	if t := cfg.Search.SuggestionThreshold; t < 0 || t > 1 {
		return fmt.Errorf("invalid config: suggestion_threshold %v not in [0,1]", t)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
