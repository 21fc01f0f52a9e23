// Package config provides hierarchical configuration management.
// Priority: defaults < system < user < project < env
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tabflow configuration.
type Config struct {
	Version int `yaml:"version"`

	Ingest   IngestConfig   `yaml:"ingest"`
	Validate ValidateConfig `yaml:"validate"`
	Stats    StatsConfig    `yaml:"stats"`
	Watch    WatchConfig    `yaml:"watch"`
	Batch    BatchConfig    `yaml:"batch"`
}

// IngestConfig controls parsing behavior.
type IngestConfig struct {
	Delimiter   string `yaml:"delimiter"`    // overrides the format default when set
	JSONColumns string `yaml:"json_columns"` // first | union
}

// ValidateConfig controls pre-ingestion file checks.
type ValidateConfig struct {
	Extensions []string `yaml:"extensions"`
	MaxSizeMB  int      `yaml:"max_size_mb"` // 0 = default (50)
}

// StatsConfig controls numeric profiling.
type StatsConfig struct {
	OutlierThreshold float64 `yaml:"outlier_threshold"` // z-score cutoff, 0 = default
}

// WatchConfig controls directory watching.
type WatchConfig struct {
	Debounce  time.Duration `yaml:"debounce"`
	SchemaDir string        `yaml:"schema_dir"` // where snapshots are written, "" = alongside data
}

// BatchConfig controls batch ingestion.
type BatchConfig struct {
	Workers     int    `yaml:"workers"` // 0 = NumCPU
	ManifestDir string `yaml:"manifest_dir"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	tabflowDir := filepath.Join(homeDir, ".tabflow")

	return &Config{
		Version: 1,
		Ingest: IngestConfig{
			JSONColumns: "first",
		},
		Validate: ValidateConfig{
			MaxSizeMB: 50,
		},
		Stats: StatsConfig{
			OutlierThreshold: 2.0,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Batch: BatchConfig{
			Workers:     0, // auto
			ManifestDir: filepath.Join(tabflowDir, "runs"),
		},
	}
}

// Manager handles configuration loading and merging.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	paths  []string // Paths that were loaded
}

// NewManager creates a new configuration manager.
func NewManager() *Manager {
	return &Manager{
		config: Default(),
	}
}

// Load loads configuration from all sources in priority order.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Start with defaults
	m.config = Default()
	m.paths = nil

	// Load from paths in order (later overrides earlier)
	paths := m.getConfigPaths()
	for _, path := range paths {
		if err := m.loadFile(path); err != nil {
			// Ignore missing files, but surface errors for existing files
			if !os.IsNotExist(err) {
				return err
			}
		} else {
			m.paths = append(m.paths, path)
		}
	}

	// Override with environment variables
	m.loadEnv()

	return nil
}

// getConfigPaths returns config file paths in priority order.
func (m *Manager) getConfigPaths() []string {
	var paths []string

	// System config
	if runtime.GOOS != "windows" {
		paths = append(paths, "/etc/tabflow/config.yaml")
	}

	// User config
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".tabflow", "config.yaml"))
	}

	// Project config (current directory)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".tabflow.yaml"))
	}

	return paths
}

// loadFile loads a single config file and merges it.
func (m *Manager) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var partial Config
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return err
	}

	// Merge non-zero values
	m.merge(&partial)
	return nil
}

// merge merges non-zero values from src into config.
func (m *Manager) merge(src *Config) {
	// Ingest
	if src.Ingest.Delimiter != "" {
		m.config.Ingest.Delimiter = src.Ingest.Delimiter
	}
	if src.Ingest.JSONColumns != "" {
		m.config.Ingest.JSONColumns = src.Ingest.JSONColumns
	}

	// Validate
	if len(src.Validate.Extensions) > 0 {
		m.config.Validate.Extensions = src.Validate.Extensions
	}
	if src.Validate.MaxSizeMB != 0 {
		m.config.Validate.MaxSizeMB = src.Validate.MaxSizeMB
	}

	// Stats
	if src.Stats.OutlierThreshold != 0 {
		m.config.Stats.OutlierThreshold = src.Stats.OutlierThreshold
	}

	// Watch
	if src.Watch.Debounce != 0 {
		m.config.Watch.Debounce = src.Watch.Debounce
	}
	if src.Watch.SchemaDir != "" {
		m.config.Watch.SchemaDir = src.Watch.SchemaDir
	}

	// Batch
	if src.Batch.Workers != 0 {
		m.config.Batch.Workers = src.Batch.Workers
	}
	if src.Batch.ManifestDir != "" {
		m.config.Batch.ManifestDir = src.Batch.ManifestDir
	}
}

// loadEnv loads configuration from environment variables.
func (m *Manager) loadEnv() {
	// TABFLOW_JSON_COLUMNS
	if v := os.Getenv("TABFLOW_JSON_COLUMNS"); v != "" {
		m.config.Ingest.JSONColumns = v
	}

	// TABFLOW_MAX_SIZE_MB
	if v := os.Getenv("TABFLOW_MAX_SIZE_MB"); v != "" {
		var mb int
		if _, err := fmt.Sscanf(v, "%d", &mb); err == nil && mb > 0 {
			m.config.Validate.MaxSizeMB = mb
		}
	}

	// TABFLOW_OUTLIER_THRESHOLD
	if v := os.Getenv("TABFLOW_OUTLIER_THRESHOLD"); v != "" {
		var z float64
		if _, err := fmt.Sscanf(v, "%g", &z); err == nil && z > 0 {
			m.config.Stats.OutlierThreshold = z
		}
	}

	// TABFLOW_WORKERS
	if v := os.Getenv("TABFLOW_WORKERS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			m.config.Batch.Workers = n
		}
	}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// GetPaths returns the paths that were loaded.
func (m *Manager) GetPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths
}

// Save writes the current config to the user config file.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(home, ".tabflow")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.yaml"), data, 0644)
}

// Global instance
var (
	globalManager *Manager
	globalOnce    sync.Once
)

// Global returns the global configuration manager.
func Global() *Manager {
	globalOnce.Do(func() {
		globalManager = NewManager()
		globalManager.Load()
	})
	return globalManager
}
