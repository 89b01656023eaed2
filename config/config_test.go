package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/slicingpie/pie"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Ledger.Type)
	assert.Equal(t, pie.DefaultParams(), cfg.Engine)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	withDefaults := func(mut func(*Config)) *Config {
		c := Default()
		mut(c)
		return c
	}
	neg := -1.0

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			config: Default(),
		},
		{
			name:    "zero hours per month",
			config:  withDefaults(func(c *Config) { c.Engine.HoursPerMonth = 0 }),
			wantErr: true,
			errMsg:  "engine.hours_per_month must be positive",
		},
		{
			name:    "zero period",
			config:  withDefaults(func(c *Config) { c.Engine.TotalPeriodMonths = -3 }),
			wantErr: true,
			errMsg:  "engine.total_period_months must be positive",
		},
		{
			name:    "founder without id",
			config:  withDefaults(func(c *Config) { c.Founders = []pie.Founder{{Name: "Asha"}} }),
			wantErr: true,
			errMsg:  "founders[0].id is required",
		},
		{
			name: "duplicate founder",
			config: withDefaults(func(c *Config) {
				c.Founders = []pie.Founder{{ID: "a", Name: "Asha"}, {ID: "a", Name: "Ravi"}}
			}),
			wantErr: true,
			errMsg:  "duplicate founder id: a",
		},
		{
			name:    "negative salary",
			config:  withDefaults(func(c *Config) { c.Founders = []pie.Founder{{ID: "a", Name: "Asha", PaidSalary: -1}} }),
			wantErr: true,
			errMsg:  "salaries must not be negative",
		},
		{
			name:    "unknown category",
			config:  withDefaults(func(c *Config) { c.Categories = []CategoryOverride{{ID: "equity", Multiplier: 2}} }),
			wantErr: true,
			errMsg:  "unknown category: equity",
		},
		{
			name:    "bad commission",
			config:  withDefaults(func(c *Config) { c.Categories = []CategoryOverride{{ID: pie.Revenue, CommissionPercent: &neg}} }),
			wantErr: true,
			errMsg:  "commission_percent must be between 0 and 100",
		},
		{
			name:    "sqlite without path",
			config:  withDefaults(func(c *Config) { c.Ledger.DBPath = "" }),
			wantErr: true,
			errMsg:  "ledger db_path required for SQLite type",
		},
		{
			name:    "unknown ledger type",
			config:  withDefaults(func(c *Config) { c.Ledger.Type = "csv" }),
			wantErr: true,
			errMsg:  "ledger.type must be 'sqlite' or 'memory'",
		},
		{
			name:   "memory ledger",
			config: withDefaults(func(c *Config) { c.Ledger = LedgerConfig{Type: "memory"} }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyCategories(t *testing.T) {
	commission := 20.0
	cfg := Default()
	cfg.Categories = []CategoryOverride{
		{ID: pie.Cash, Multiplier: 3},
		{ID: pie.Revenue, CommissionPercent: &commission},
	}

	cats := cfg.ApplyCategories()
	require.Len(t, cats, 6)

	cash, ok := pie.FindCategory(cats, pie.Cash)
	require.True(t, ok)
	assert.Equal(t, 3.0, cash.Multiplier)

	rev, ok := pie.FindCategory(cats, pie.Revenue)
	require.True(t, ok)
	assert.Equal(t, 2.0, rev.Multiplier)
	assert.Equal(t, 20.0, *rev.CommissionPercent)

	commission = 99
	assert.Equal(t, 20.0, *rev.CommissionPercent)
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"json without json extension", ".conf"},
		{"json without extension", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Founders = []pie.Founder{{ID: "a", Name: "Asha", MarketSalary: 150000, PaidSalary: 25000}}
			cfg.Categories = []CategoryOverride{{ID: pie.Time, Multiplier: 2.5}}
			cfg.Engine.HoursPerMonth = 140
			path := filepath.Join(tmpDir, "test"+tt.ext)

			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			_, err = os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Company, loaded.Company)
			assert.Equal(t, cfg.Engine, loaded.Engine)
			assert.Equal(t, cfg.Ledger, loaded.Ledger)
			assert.Equal(t, cfg.Founders, loaded.Founders)
			assert.Equal(t, cfg.Categories, loaded.Categories)
		})
	}
}

func TestLoadDetectsJSONContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slicer.conf")
	data := `
  {"company": "Tiny Co", "engine": {"hoursPerMonth": 120, "totalPeriodMonths": 24},
   "founders": [{"id": "a", "name": "Asha", "marketSalary": 90000}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Tiny Co", cfg.Company)
	assert.Equal(t, pie.Params{HoursPerMonth: 120, TotalPeriodMonths: 24}, cfg.Engine)
	require.Len(t, cfg.Founders, 1)
	assert.Equal(t, 90000.0, cfg.Founders[0].MarketSalary)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("company: Tiny Co\nledger:\n  type: memory\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Tiny Co", cfg.Company)
	assert.Equal(t, pie.DefaultParams(), cfg.Engine)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}
