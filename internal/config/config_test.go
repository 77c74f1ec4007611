package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "toll-tracker/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toll.json")
	content := `{
  "holiday_api": {"base_url": "https://holidays.example.com/v2"},
  "holiday": {"source": "calendar"},
  "data": {"path": "/srv/tolls.hcl"}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://holidays.example.com/v2", cfg.HolidayAPI.BaseURL)
	assert.Equal(t, SourceCalendar, cfg.Holiday.Source)
	assert.Equal(t, "/srv/tolls.hcl", cfg.Data.Path)
	assert.Equal(t, 10, cfg.HolidayAPI.TimeoutSeconds)
	assert.Equal(t, "cli", cfg.Output.DefaultFormat)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("TOLL_HOLIDAY_API_TIMEOUT_SECONDS", "3")
	t.Setenv("TOLL_DATA_PATH", "env.hcl")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.HolidayAPI.TimeoutSeconds)
	assert.Equal(t, "env.hcl", cfg.Data.Path)
}

func TestLoadRejectsBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toll.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	assert.True(t, apperrors.IsType(err, apperrors.TypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "toll.json")

	cfg := Default()
	cfg.Holiday.Cache.Enabled = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Holiday.Cache.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"relative base url", func(c *Config) { c.HolidayAPI.BaseURL = "dagar/v2.1" }, true},
		{"calendar ignores base url", func(c *Config) {
			c.Holiday.Source = SourceCalendar
			c.HolidayAPI.BaseURL = ""
		}, false},
		{"zero timeout", func(c *Config) { c.HolidayAPI.TimeoutSeconds = 0 }, true},
		{"unknown source", func(c *Config) { c.Holiday.Source = "oracle" }, true},
		{"cache without addr", func(c *Config) {
			c.Holiday.Cache.Enabled = true
			c.Holiday.Cache.RedisAddr = ""
		}, true},
		{"unknown format", func(c *Config) { c.Output.DefaultFormat = "html" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.True(t, apperrors.IsType(err, apperrors.TypeConfig), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
