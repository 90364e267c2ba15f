package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.AzureEnabled())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ANALYSIS_TIMEOUT", "45s")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "acct")
	t.Setenv("AZURE_STORAGE_KEY", "a2V5")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.AnalysisTimeout)
	assert.True(t, cfg.AzureEnabled())
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non numeric port", map[string]string{"PORT": "http"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"negative body size", map[string]string{"MAX_REQUEST_BODY_SIZE": "-1"}},
		{"azure account without key", map[string]string{"AZURE_STORAGE_ACCOUNT": "acct"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestDefault_IgnoresEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	assert.Equal(t, "8080", Default().Port)
}

func TestOutputDirFromEnv(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "")
	assert.Equal(t, DefaultOutputDir, OutputDirFromEnv())

	t.Setenv("OUTPUT_DIR", "/tmp/out")
	assert.Equal(t, "/tmp/out", OutputDirFromEnv())
}
