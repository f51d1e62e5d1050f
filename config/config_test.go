package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yllada/wm-properties/common"
)

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, common.PollAttempts, cfg.PollAttempts)
	assert.Equal(t, common.PollInterval, cfg.PollInterval)
	assert.Equal(t, "twm", cfg.FallbackCommand)
	assert.FileExists(t, path)
}

func TestLoadFrom_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.UserDir = "/tmp/wms"
	cfg.PollInterval = 250 * time.Millisecond
	cfg.PollAttempts = 3
	cfg.ShowNotifications = false
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFrom_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: dark\n"), 0600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConfigLoad))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Config
		wantErr bool
		check   func(t *testing.T, c Config)
	}{
		{
			name: "blank values take defaults",
			in:   Config{},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, common.SystemDescriptorDir, c.SystemDir)
				assert.Equal(t, common.PollAttempts, c.PollAttempts)
				assert.Equal(t, "info", c.LogLevel)
			},
		},
		{
			name:    "negative attempts",
			in:      Config{PollAttempts: -1},
			wantErr: true,
		},
		{
			name: "log level kept",
			in:   Config{LogLevel: "debug"},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "debug", c.LogLevel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			err := c.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}

func TestSettingsPath(t *testing.T) {
	cfg := &Config{DatabasePath: "/var/tmp/x.db"}
	got, err := cfg.SettingsPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/x.db", got)

	t.Setenv("HOME", t.TempDir())
	cfg.DatabasePath = ""
	got, err = cfg.SettingsPath()
	require.NoError(t, err)
	assert.Equal(t, common.SettingsFileName, filepath.Base(got))
}
