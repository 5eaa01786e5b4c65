// Package config loads engine configuration from a YAML or JSON file with
// environment overrides on top. A missing provider credential is a degraded
// mode, not a startup failure: calibration then runs deposit-only.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mmmmuhib/agentvault/chain"
)

type Config struct {
	Program  string         `json:"program" yaml:"program"`
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger"`
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Custody  CustodyConfig  `json:"custody,omitempty" yaml:"custody,omitempty"`
	Journal  JournalConfig  `json:"journal,omitempty" yaml:"journal,omitempty"`
}

type LedgerConfig struct {
	URL string `json:"url" yaml:"url"`
}

// ProviderConfig points at the transaction-history provider. Key may be
// empty; history fetches are then skipped entirely.
type ProviderConfig struct {
	URL          string `json:"url" yaml:"url"`
	Key          string `json:"key,omitempty" yaml:"key,omitempty"`
	LookbackDays int    `json:"lookback_days,omitempty" yaml:"lookback_days,omitempty"`
	MaxPages     int    `json:"max_pages,omitempty" yaml:"max_pages,omitempty"`
}

type CustodyConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
}

type JournalConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

const (
	defaultLookbackDays = 30
	defaultMaxPages     = 10
	defaultJournalPath  = "agentvault.db"
)

// Load reads the file at path, then applies .env and process environment
// overrides. Path may be empty to run on environment alone.
func Load(path string) (*Config, error) {
	// A .env next to the binary is a development convenience; absence is
	// the normal production case.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile parses a config file, trying YAML first and JSON second.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	override(&c.Program, "AGENTVAULT_PROGRAM")
	override(&c.Ledger.URL, "AGENTVAULT_LEDGER_URL")
	override(&c.Provider.URL, "AGENTVAULT_PROVIDER_URL")
	override(&c.Provider.Key, "AGENTVAULT_PROVIDER_KEY")
	override(&c.Custody.URL, "AGENTVAULT_CUSTODY_URL")
	override(&c.Custody.Key, "AGENTVAULT_CUSTODY_KEY")
	override(&c.Journal.DBPath, "AGENTVAULT_JOURNAL_PATH")
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Provider.LookbackDays == 0 {
		c.Provider.LookbackDays = defaultLookbackDays
	}
	if c.Provider.MaxPages == 0 {
		c.Provider.MaxPages = defaultMaxPages
	}
	if c.Journal.DBPath == "" {
		c.Journal.DBPath = defaultJournalPath
	}
}

// Validate checks the required fields. The provider key is deliberately not
// required; see Degraded.
func (c *Config) Validate() error {
	if c.Program == "" {
		return fmt.Errorf("program is required")
	}
	if _, err := chain.PubkeyFromBase58(c.Program); err != nil {
		return fmt.Errorf("program: %w", err)
	}
	if c.Ledger.URL == "" {
		return fmt.Errorf("ledger.url is required")
	}
	if c.Provider.LookbackDays < 0 || c.Provider.MaxPages < 0 {
		return fmt.Errorf("provider lookback_days and max_pages must be non-negative")
	}
	return nil
}

// Degraded reports whether history fetches are unavailable, which pins
// calibration at tier 1 and analytics at "insufficient data".
func (c *Config) Degraded() bool {
	return c.Provider.URL == "" || c.Provider.Key == ""
}

// ProgramID returns the managing program's parsed address. Validate must
// have accepted the config first.
func (c *Config) ProgramID() chain.Pubkey {
	return chain.MustPubkey(c.Program)
}
