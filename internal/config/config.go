package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/Nomadcxx/tidysink/internal/cleaner"
	"github.com/Nomadcxx/tidysink/internal/ledger"
	"github.com/Nomadcxx/tidysink/internal/reporter"
	"github.com/Nomadcxx/tidysink/internal/scanner"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix is the prefix for environment overrides (TIDYSINK_UNDO_LOG, ...)
const EnvPrefix = "TIDYSINK"

// Config holds all tidysink configuration
type Config struct {
	Undo       UndoConfig       `toml:"undo"`
	Duplicates DuplicatesConfig `toml:"duplicates"`
	Organize   OrganizeConfig   `toml:"organize"`
	Watch      WatchConfig      `toml:"watch"`
	Log        LogConfig        `toml:"log"`
	Rules      []RuleConfig     `toml:"rules"`
}

// UndoConfig locates the undo ledger
type UndoConfig struct {
	LogFile string `toml:"log_file"` // empty means ~/.local/share/tidysink/undo.json
}

// DuplicatesConfig controls duplicate detection and deletion
type DuplicatesConfig struct {
	Algorithm      string   `toml:"algorithm"`
	ProtectedPaths []string `toml:"protected_paths"`
	OperationsLog  string   `toml:"operations_log"`
	MaxSizeGB      int64    `toml:"max_size_gb"` // 0 disables the limit
}

// OrganizeConfig controls organize strategies
type OrganizeConfig struct {
	DateTimezone string `toml:"date_timezone"` // "Local" or an IANA name
}

// WatchConfig controls watch mode
type WatchConfig struct {
	Strategy   string `toml:"strategy"`    // type, date, size
	DebounceMS int    `toml:"debounce_ms"` // quiet period before re-organizing
}

// LogConfig controls console output
type LogConfig struct {
	Level string `toml:"level"` // quiet, normal, verbose
	Color bool   `toml:"color"`
}

// RuleConfig is a custom category loaded at start-up
type RuleConfig struct {
	Name       string   `toml:"name"`
	Extensions []string `toml:"extensions"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Undo: UndoConfig{
			LogFile: "",
		},
		Duplicates: DuplicatesConfig{
			Algorithm:      scanner.DefaultAlgorithm,
			ProtectedPaths: cleaner.DefaultProtectedPaths(),
			OperationsLog:  cleaner.DefaultLogPath(),
		},
		Organize: OrganizeConfig{
			DateTimezone: "Local",
		},
		Watch: WatchConfig{
			Strategy:   "type",
			DebounceMS: 500,
		},
		Log: LogConfig{
			Level: "normal",
			Color: true,
		},
		Rules: []RuleConfig{},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	return filepath.Join(configDir, "tidysink", "config.toml"), nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return ConfigPath()
}

// Load reads the config file at path (ConfigPath when empty), creating it
// with defaults if it doesn't exist
func Load(path string) (*Config, error) {
	configFile, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, create it with defaults
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := Save(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Start from defaults so omitted keys keep their default value
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(configFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to path (ConfigPath when empty)
func Save(cfg *Config, path string) error {
	configFile, err := resolvePath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(configFile)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ApplyEnv overrides file values from TIDYSINK_* environment variables:
// TIDYSINK_UNDO_LOG, TIDYSINK_HASH_ALGORITHM, TIDYSINK_LOG_LEVEL and
// TIDYSINK_WATCH_STRATEGY
func (c *Config) ApplyEnv() {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	overrides := map[string]*string{
		"undo_log":       &c.Undo.LogFile,
		"hash_algorithm": &c.Duplicates.Algorithm,
		"log_level":      &c.Log.Level,
		"watch_strategy": &c.Watch.Strategy,
	}

	for key, target := range overrides {
		if value := v.GetString(key); value != "" {
			*target = value
		}
	}
}

// LedgerPath returns the undo ledger location
func (c *Config) LedgerPath() (string, error) {
	if c.Undo.LogFile != "" {
		return expandHome(c.Undo.LogFile), nil
	}
	return ledger.DefaultPath()
}

// Location returns the timezone used for date organizing
func (c *Config) Location() (*time.Location, error) {
	switch c.Organize.DateTimezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Organize.DateTimezone)
}

// Debounce returns the watch quiet period
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if _, err := scanner.NewHasher(c.Duplicates.Algorithm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	validStrategies := map[string]bool{
		"type": true,
		"date": true,
		"size": true,
	}
	if !validStrategies[c.Watch.Strategy] {
		return fmt.Errorf("%w: invalid watch strategy: %s (must be type, date, or size)", ErrInvalidConfig, c.Watch.Strategy)
	}

	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: debounce_ms must not be negative", ErrInvalidConfig)
	}

	if c.Duplicates.MaxSizeGB < 0 {
		return fmt.Errorf("%w: max_size_gb must not be negative", ErrInvalidConfig)
	}

	if _, err := reporter.ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: date_timezone: %v", ErrInvalidConfig, err)
	}

	seen := make(map[string]bool)
	for i, rule := range c.Rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return fmt.Errorf("%w: rule %d has no name", ErrInvalidConfig, i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate rule name: %s", ErrInvalidConfig, name)
		}
		seen[name] = true
		if len(rule.Extensions) == 0 {
			return fmt.Errorf("%w: rule %q has no extensions", ErrInvalidConfig, name)
		}
	}

	return nil
}

// AddRule adds a custom rule to the file config
func (c *Config) AddRule(name string, extensions []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rule name is empty")
	}
	if len(extensions) == 0 {
		return fmt.Errorf("rule %q has no extensions", name)
	}

	for _, existing := range c.Rules {
		if existing.Name == name {
			return fmt.Errorf("rule already configured: %s", name)
		}
	}

	c.Rules = append(c.Rules, RuleConfig{Name: name, Extensions: extensions})
	return nil
}

// RemoveRule removes a custom rule from the file config
func (c *Config) RemoveRule(name string) error {
	for i, existing := range c.Rules {
		if existing.Name == name {
			c.Rules = append(c.Rules[:i], c.Rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("rule not found: %s", name)
}

// ParseRule parses a "Name=.ext1,.ext2" rule flag
func ParseRule(s string) (RuleConfig, error) {
	name, exts, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return RuleConfig{}, fmt.Errorf("invalid rule %q (want Name=.ext1,.ext2)", s)
	}

	var extensions []string
	for _, ext := range strings.Split(exts, ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			extensions = append(extensions, ext)
		}
	}
	if len(extensions) == 0 {
		return RuleConfig{}, fmt.Errorf("rule %q has no extensions", name)
	}

	return RuleConfig{Name: name, Extensions: extensions}, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
