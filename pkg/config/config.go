// Package config loads fingerbank configuration from defaults, a YAML file,
// FINGERBANK_* environment variables and command-line flags.
package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/vulntor/fingerbank/pkg/match"
)

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"catalog":    "catalog.path",
	"url":        "catalog.url",
	"cache-dir":  "catalog.cache_dir",
	"watch":      "catalog.watch",
	"tests":      "match.tests",
	"top-k":      "match.top_k",
	"threshold":  "match.threshold",
	"workers":    "match.workers",
	"class":      "match.class",
}

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex
}

// NewManager creates a Manager with an empty koanf instance.
func NewManager() *Manager {
	return &Manager{koanfInstance: koanf.New(".")}
}

// DefaultConfig returns a new Config struct populated with hardcoded default values.
func DefaultConfig() Config {
	p := match.DefaultParams()
	return Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Match: MatchConfig{
			Tests:     []string{match.TestExact, match.TestShared, match.TestSimilarity},
			TopK:      p.TopK,
			Threshold: p.Threshold,
		},
	}
}

// Load reads the standard sources: defaults, the config file at path, the
// environment and flags. A "debug" flag set to true forces debug logging.
func (m *Manager) Load(flags *pflag.FlagSet, configPath string) error {
	debug := false
	if flags != nil {
		if f := flags.Lookup("debug"); f != nil && f.Value.String() == "true" {
			debug = true
		}
	}
	return m.LoadWithSources(DefaultSources(configPath, flags, debug))
}

// LoadWithSources loads sources in ascending priority, unmarshals the merged
// result and validates it. The previous configuration is kept on error.
func (m *Manager) LoadWithSources(sources []ConfigSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ordered := append([]ConfigSource(nil), sources...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	k := koanf.New(".")
	for _, src := range ordered {
		if err := src.Load(k); err != nil {
			return fmt.Errorf("config source %s: %w", src.Name(), err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.koanfInstance = k
	m.currentConfig = cfg
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg := m.currentConfig
	cfg.Match.Tests = append([]string(nil), cfg.Match.Tests...)
	return cfg
}

// Koanf exposes the merged key space, e.g. for 'config show'-style output.
func (m *Manager) Koanf() *koanf.Koanf {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.koanfInstance
}

// MatchParams converts the match section into engine parameters.
func (c Config) MatchParams() match.Params {
	return match.Params{TopK: c.Match.TopK, Threshold: c.Match.Threshold}
}

// DefaultConfigAsMap converts the DefaultConfig struct to a map for koanf's
// confmap.Provider so every key is known before the other sources load.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,

		"catalog.path":      def.Catalog.Path,
		"catalog.url":       def.Catalog.URL,
		"catalog.cache_dir": def.Catalog.CacheDir,
		"catalog.watch":     def.Catalog.Watch,

		"match.tests":     def.Match.Tests,
		"match.top_k":     def.Match.TopK,
		"match.threshold": def.Match.Threshold,
		"match.workers":   def.Match.Workers,
		"match.class":     def.Match.Class,
	}
}

// BindFlags defines the persistent flags shared by every command.
func BindFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig()

	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-level", defaults.Log.Level, "Log level (debug, info, warn, error)")
	flags.String("log-format", defaults.Log.Format, "Log format (console, json)")
	flags.String("catalog", defaults.Catalog.Path, "Catalog file to load instead of the cached or builtin catalog")
	flags.String("cache-dir", defaults.Catalog.CacheDir, "Directory holding the synced catalog")
	flags.Int("workers", defaults.Match.Workers, "Goroutines used per match (0 = one per CPU)")
}

// BindMatchFlags defines the flags that tune matching.
func BindMatchFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig()

	flags.StringSlice("tests", defaults.Match.Tests, "Tests to run ("+strings.Join(match.Names(), ", ")+")")
	flags.Int("top-k", defaults.Match.TopK, "Results kept by ranking tests")
	flags.Float64("threshold", defaults.Match.Threshold, "Quick-ratio bound below which similarity is not refined")
	flags.Int("class", defaults.Match.Class, "Only report entries in this class (0 = any)")
}
