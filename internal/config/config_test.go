package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hyperjump/vitrine/internal/storage"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  driver: memory
search:
  max_results: 20
  ranking:
    featured_bonus: 7
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.Driver != storage.DriverMemory {
		t.Errorf("driver = %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Search.MaxResults != 20 {
		t.Errorf("max_results = %d, want 20", cfg.Search.MaxResults)
	}
	if cfg.Search.Ranking.FeaturedBonus != 7 {
		t.Errorf("featured_bonus = %d, want 7", cfg.Search.Ranking.FeaturedBonus)
	}
	if cfg.Search.Ranking.TitleTermBase != 10 {
		t.Errorf("title_term_base should default to 10, got %d", cfg.Search.Ranking.TitleTermBase)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	cfg, err := Load(writeConfig(t, "debug: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
catalog:
  path: "./catalog.yaml"
storage:
  database_path: "./data/vitrine.db"
  file_path: "./data/state.json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	want := map[string]string{
		"catalog":  filepath.Join(dir, "catalog.yaml"),
		"database": filepath.Join(dir, "data", "vitrine.db"),
		"file":     filepath.Join(dir, "data", "state.json"),
	}
	got := map[string]string{
		"catalog":  cfg.Catalog.Path,
		"database": cfg.Storage.DatabasePath,
		"file":     cfg.Storage.FilePath,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expanded paths mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "server: [", "failed to parse config"},
		{"unknown driver", "storage:\n  driver: mongo\n", "unknown storage driver"},
		{"bad port", "server:\n  port: 70000\n", "out of range"},
		{"bad threshold", "search:\n  suggestion_threshold: 1.5\n", "suggestion_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("default server: got %+v", cfg.Server)
	}
	if cfg.Storage.Driver != storage.DriverSQLite {
		t.Errorf("default driver: got %s", cfg.Storage.Driver)
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("default max_results: got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.Debounce() != 300*time.Millisecond {
		t.Errorf("default debounce: got %v", cfg.Search.Debounce())
	}
	if cfg.Search.SuggestionThreshold != 0.35 {
		t.Errorf("default suggestion_threshold: got %v", cfg.Search.SuggestionThreshold)
	}
	if cfg.Search.TechFilterThreshold != 0.7 || cfg.Search.Ranking.TechFilterThreshold != 0.7 {
		t.Errorf("default tech_filter_threshold: got %v / %v",
			cfg.Search.TechFilterThreshold, cfg.Search.Ranking.TechFilterThreshold)
	}
	if cfg.Search.HighlightOpen != "<mark>" || cfg.Search.HighlightClose != "</mark>" {
		t.Errorf("default highlight markers: got %q %q", cfg.Search.HighlightOpen, cfg.Search.HighlightClose)
	}
	wantHistory := HistoryConfig{Namespace: "vitrine", RecentLimit: 10, HistoryLimit: 50, FrequencyLimit: 100, PopularLimit: 5}
	if diff := cmp.Diff(wantHistory, cfg.History); diff != "" {
		t.Errorf("history defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Modal.MaxModals != 10 || cfg.Modal.BaseStackIndex != 1000 {
		t.Errorf("modal defaults: got %+v", cfg.Modal)
	}
}

func TestApplyDefaults_techThresholdOverride(t *testing.T) {
	cfg := &Config{Search: SearchConfig{TechFilterThreshold: 0.5}}
	ApplyDefaults(cfg)
	if cfg.Search.Ranking.TechFilterThreshold != 0.5 {
		t.Errorf("ranking threshold = %v, want 0.5", cfg.Search.Ranking.TechFilterThreshold)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{Storage: StorageConfig{Driver: storage.DriverFile, FilePath: "/tmp/state.json"}}
	ApplyDefaults(cfg)
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStorageOptions(t *testing.T) {
	s := StorageConfig{
		Driver:       storage.DriverRedis,
		DatabasePath: "/db",
		FilePath:     "/f.json",
		Redis:        RedisConfig{Addr: "r:6379", Password: "pw", DB: 2},
	}
	want := storage.Options{
		Driver: "redis", DatabasePath: "/db", FilePath: "/f.json",
		RedisAddr: "r:6379", RedisPassword: "pw", RedisDB: 2,
	}
	if diff := cmp.Diff(want, s.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}
