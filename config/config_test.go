package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProgram = "So11111111111111111111111111111111111111112"

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
program: `+testProgram+`
ledger:
  url: http://localhost:8899
provider:
  url: https://history.example.com
  key: secret
  lookback_days: 14
journal:
  db_path: /tmp/test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, testProgram, cfg.ProgramID().String())
	assert.Equal(t, "http://localhost:8899", cfg.Ledger.URL)
	assert.Equal(t, 14, cfg.Provider.LookbackDays)
	assert.Equal(t, defaultMaxPages, cfg.Provider.MaxPages, "unset knobs take defaults")
	assert.Equal(t, "/tmp/test.db", cfg.Journal.DBPath)
	assert.False(t, cfg.Degraded())
}

func TestLoad_JSONFallback(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "program": "`+testProgram+`",
  "ledger": {"url": "http://localhost:8899"},
  "provider": {"url": "https://history.example.com"}
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8899", cfg.Ledger.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
program: `+testProgram+`
ledger:
  url: http://localhost:8899
provider:
  url: https://history.example.com
  key: from-file
`)
	t.Setenv("AGENTVAULT_PROVIDER_KEY", "from-env")
	t.Setenv("AGENTVAULT_LEDGER_URL", "http://node.internal:8899")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Provider.Key)
	assert.Equal(t, "http://node.internal:8899", cfg.Ledger.URL)
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	t.Setenv("AGENTVAULT_PROGRAM", testProgram)
	t.Setenv("AGENTVAULT_LEDGER_URL", "http://localhost:8899")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, testProgram, cfg.Program)
}

func TestLoad_MissingProviderKeyIsDegradedNotFatal(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
program: `+testProgram+`
ledger:
  url: http://localhost:8899
provider:
  url: https://history.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err, "a missing credential degrades, it does not abort")
	assert.True(t, cfg.Degraded())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no program", Config{Ledger: LedgerConfig{URL: "http://x"}}},
		{"bad program", Config{Program: "not-an-address", Ledger: LedgerConfig{URL: "http://x"}}},
		{"no ledger url", Config{Program: testProgram}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestLoadFromFile_Unparseable(t *testing.T) {
	path := writeConfig(t, "config.yaml", "::: not a config {{{")
	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
