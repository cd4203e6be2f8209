package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadFile tests configuration assembly with various scenarios
func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)

				assert.True(t, cfg.Security.EnableCORS)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, "artifacts", cfg.Artifacts.Dir)
				assert.Equal(t, CacheScopeProcess, cfg.Artifacts.CacheScope)
				assert.Equal(t, 30*time.Minute, cfg.Artifacts.SessionTTL)

				assert.Equal(t, 0.75, cfg.Panels.HighProbabilityThreshold)
				assert.Equal(t, 15, cfg.Panels.TopFeatures)
				assert.Equal(t, RowPolicyPass, cfg.Panels.RowPolicy)

				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "environment variables override defaults",
			env: map[string]string{
				"TREXX_SERVER_PORT":                       "9090",
				"TREXX_SERVER_READ_TIMEOUT":               "30s",
				"TREXX_SECURITY_ALLOWED_ORIGINS":          "http://a.example,https://b.example",
				"TREXX_LOGGING_LEVEL":                     "DEBUG",
				"TREXX_ARTIFACTS_DIR":                     "/srv/artifacts",
				"TREXX_ARTIFACTS_CACHE_SCOPE":             "Session",
				"TREXX_PANELS_ROW_POLICY":                 "clamp",
				"TREXX_PANELS_HIGH_PROBABILITY_THRESHOLD": "0.9",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "/srv/artifacts", cfg.Artifacts.Dir)
				assert.Equal(t, CacheScopeSession, cfg.Artifacts.CacheScope)
				assert.Equal(t, RowPolicyClamp, cfg.Panels.RowPolicy)
				assert.Equal(t, 0.9, cfg.Panels.HighProbabilityThreshold)
				// untouched sections keep their defaults
				assert.Equal(t, 15, cfg.Panels.TopFeatures)
			},
		},
		{
			name: "file overrides defaults and env overrides file",
			env: map[string]string{
				"TREXX_SERVER_PORT":   "7070",
				"TREXX_LOGGING_LEVEL": "warn",
			},
			fileContent: `
server:
  port: 6060
  read_timeout: 20s
logging:
  level: error
artifacts:
  dir: /data/artifacts
panels:
  top_features: 10
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "/data/artifacts", cfg.Artifacts.Dir)
				assert.Equal(t, 10, cfg.Panels.TopFeatures)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"TREXX_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"TREXX_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "empty allowed origins with cors enabled",
			env:     map[string]string{"TREXX_SECURITY_ALLOWED_ORIGINS": ""},
			wantErr: true,
		},
		{
			name:    "unknown cache scope",
			env:     map[string]string{"TREXX_ARTIFACTS_CACHE_SCOPE": "cluster"},
			wantErr: true,
		},
		{
			name:    "unknown row policy",
			env:     map[string]string{"TREXX_PANELS_ROW_POLICY": "drop"},
			wantErr: true,
		},
		{
			name:    "threshold out of range",
			env:     map[string]string{"TREXX_PANELS_HIGH_PROBABILITY_THRESHOLD": "1.5"},
			wantErr: true,
		},
		{
			name:    "non positive top features",
			env:     map[string]string{"TREXX_PANELS_TOP_FEATURES": "0"},
			wantErr: true,
		},
		{
			name:        "malformed yaml",
			fileContent: "server: [unterminated",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			configFile := ""
			if tt.fileContent != "" {
				configFile = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))
			}

			cfg, err := LoadFile(configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadUsesConfigFileEnv(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("artifacts:\n  dir: from-file\n"), 0644))
	t.Setenv("TREXX_CONFIG_FILE", configFile)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Artifacts.Dir)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.validate())
}
