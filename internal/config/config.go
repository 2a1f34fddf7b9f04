// Package config loads resolver settings from YAML layered over embedded
// defaults.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jward/uecomplete/internal/typeclean"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is immutable once loaded and safe to share between engines.
type Config struct {
	TypeCleaning   TypeCleaning   `yaml:"type_cleaning"`
	ValueInference ValueInference `yaml:"value_inference"`
	Store          Store          `yaml:"store"`
	Logging        Logging        `yaml:"logging"`
}

// TypeCleaning configures typeclean.Cleaner.
type TypeCleaning struct {
	PeelWrappers  []string `yaml:"peel_wrappers"`
	StripKeywords []string `yaml:"strip_keywords"`
}

// ValueInference lists the initializer shapes used to type auto bindings.
type ValueInference struct {
	SubobjectFactories []string `yaml:"subobject_factories"`
	PeelConstructors   []string `yaml:"peel_constructors"`
}

// Store configures symbol lookups.
type Store struct {
	UninformativeReturns []string `yaml:"uninformative_returns"`
}

// Logging configures the CLI logger.
type Logging struct {
	Level string `yaml:"level"`
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := parse(defaultsYAML, nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the YAML file at path and merges it over the defaults. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := parse(data, Default())
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse merges YAML data over the defaults.
func Parse(data []byte) (*Config, error) {
	return parse(data, Default())
}

func parse(data []byte, base *Config) (*Config, error) {
	cfg := &Config{}
	if base != nil {
		*cfg = *base
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects blank list entries and unknown log levels.
func (c *Config) Validate() error {
	lists := map[string][]string{
		"type_cleaning.peel_wrappers":         c.TypeCleaning.PeelWrappers,
		"type_cleaning.strip_keywords":        c.TypeCleaning.StripKeywords,
		"value_inference.subobject_factories": c.ValueInference.SubobjectFactories,
		"value_inference.peel_constructors":   c.ValueInference.PeelConstructors,
		"store.uninformative_returns":         c.Store.UninformativeReturns,
	}
	for key, values := range lists {
		for i, v := range values {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%s[%d] is empty", key, i)
			}
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps logging.level onto a slog.Level. An empty level is Info.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
}

// Cleaner builds the type cleaner described by type_cleaning.
func (c *Config) Cleaner() *typeclean.Cleaner {
	return typeclean.New(c.TypeCleaning.PeelWrappers, c.TypeCleaning.StripKeywords)
}
