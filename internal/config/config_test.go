package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 5, cfg.PageLimit)
	assert.Equal(t, 120*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 60*time.Second, cfg.PageTimeout)
	assert.Equal(t, FetchModeDynamic, cfg.FetchMode)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".itfcal.yaml")
	content := `
default_year: "2026"
page_limit: 12
page_timeout: 45s
fetch_mode: Static
stealth: true
listen_addr: 127.0.0.1:9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "2026", cfg.DefaultYear)
	assert.Equal(t, 12, cfg.PageLimit)
	assert.Equal(t, 45*time.Second, cfg.PageTimeout)
	assert.Equal(t, FetchModeStatic, cfg.FetchMode)
	assert.True(t, cfg.Stealth)
	assert.Equal(t, "127.0.0.1:9090", cfg.ListenAddr)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ITFCAL_PAGE_LIMIT", "30")
	t.Setenv("ITFCAL_NAVIGATION_TIMEOUT", "90s")

	v := viper.New()
	v.SetEnvPrefix("ITFCAL")
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.PageLimit)
	assert.Equal(t, 90*time.Second, cfg.NavigationTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"page limit too high", func(c *Config) { c.PageLimit = 61 }, "page_limit must be at most 60"},
		{"page limit zero", func(c *Config) { c.PageLimit = 0 }, "page_limit must be at least 1"},
		{"year not numeric", func(c *Config) { c.DefaultYear = "20x5" }, "default_year must be numeric"},
		{"year too short", func(c *Config) { c.DefaultYear = "25" }, "default_year must be 4 characters"},
		{"bad mode", func(c *Config) { c.FetchMode = "auto" }, "fetch_mode must be one of: dynamic static"},
		{"bad url", func(c *Config) { c.BaseURL = "not a url" }, "base_url must be a valid URL"},
		{"zero timeout", func(c *Config) { c.PageTimeout = 0 }, "page_timeout must be positive"},
		{"bad listen", func(c *Config) { c.ListenAddr = "8080" }, "listen_addr must be host:port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllFields(t *testing.T) {
	cfg := Default()
	cfg.PageLimit = 100
	cfg.FetchMode = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_limit")
	assert.Contains(t, err.Error(), "fetch_mode")
}
