package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/slicingpie/pie"
)

// Config represents the complete slicer configuration
type Config struct {
	Company    string             `json:"company" yaml:"company"`
	Founders   []pie.Founder      `json:"founders,omitempty" yaml:"founders,omitempty"`
	Categories []CategoryOverride `json:"categories,omitempty" yaml:"categories,omitempty"`
	Engine     pie.Params         `json:"engine" yaml:"engine"`
	Ledger     LedgerConfig       `json:"ledger" yaml:"ledger"`
	Server     ServerConfig       `json:"server" yaml:"server"`
	Log        LogConfig          `json:"log" yaml:"log"`
}

// CategoryOverride replaces the default multiplier or commission of a category
type CategoryOverride struct {
	ID                pie.CategoryID `json:"id" yaml:"id"`
	Multiplier        float64        `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	CommissionPercent *float64       `json:"commission_percent,omitempty" yaml:"commission_percent,omitempty"`
}

// LedgerConfig selects where entries are stored
type LedgerConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite" or "memory"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// JSON is valid YAML but the key names differ, so JSON content skips
	// the YAML pass whatever the file is called.
	if looksLikeJSON(path, data) {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if err = yaml.Unmarshal(data, cfg); err != nil {
		// Try YAML first, fall back to JSON
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func looksLikeJSON(path string, data []byte) bool {
	if strings.HasSuffix(path, ".json") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.HoursPerMonth <= 0 {
		return fmt.Errorf("engine.hours_per_month must be positive")
	}
	if c.Engine.TotalPeriodMonths <= 0 {
		return fmt.Errorf("engine.total_period_months must be positive")
	}

	seen := make(map[string]bool)
	for i, f := range c.Founders {
		if f.ID == "" {
			return fmt.Errorf("founders[%d].id is required", i)
		}
		if f.Name == "" {
			return fmt.Errorf("founders[%d].name is required", i)
		}
		if seen[f.ID] {
			return fmt.Errorf("duplicate founder id: %s", f.ID)
		}
		seen[f.ID] = true
		if f.MarketSalary < 0 || f.PaidSalary < 0 {
			return fmt.Errorf("founders[%d] salaries must not be negative", i)
		}
	}

	for i, o := range c.Categories {
		if !o.ID.Valid() {
			return fmt.Errorf("unknown category: %s", o.ID)
		}
		if o.Multiplier < 0 {
			return fmt.Errorf("categories[%d].multiplier must be positive", i)
		}
		if o.CommissionPercent != nil && (*o.CommissionPercent < 0 || *o.CommissionPercent > 100) {
			return fmt.Errorf("categories[%d].commission_percent must be between 0 and 100", i)
		}
	}

	switch c.Ledger.Type {
	case "memory":
	case "sqlite":
		if c.Ledger.DBPath == "" {
			return fmt.Errorf("ledger db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("ledger.type must be 'sqlite' or 'memory'")
	}
	return nil
}

// ApplyCategories returns the default categories with the configured
// overrides applied.
func (c *Config) ApplyCategories() []pie.Category {
	cats := pie.DefaultCategories()
	for _, o := range c.Categories {
		for i := range cats {
			if cats[i].ID != o.ID {
				continue
			}
			if o.Multiplier > 0 {
				cats[i].Multiplier = o.Multiplier
			}
			if o.CommissionPercent != nil {
				v := *o.CommissionPercent
				cats[i].CommissionPercent = &v
			}
		}
	}
	return cats
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Company: "Acme Labs",
		Engine:  pie.DefaultParams(),
		Ledger: LedgerConfig{
			Type:   "sqlite",
			DBPath: "./slicer.sqlite",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}
