package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "optionsintel.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "./data", config.Storage.Badger.Path)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, 2, config.Research.RateLimit)
	assert.Equal(t, "basic", config.Research.Depth)
	assert.Equal(t, 4, config.Cache.MaxEarningsQuarters)
	assert.Equal(t, 20, config.Cache.MaxNewsArticles)
	assert.Equal(t, 30, config.Router.MaxRAGAgeDays)
	assert.InDelta(t, 0.6, config.Router.RelevanceThreshold, 1e-9)
	assert.True(t, config.Router.EnableHybrid)
	assert.Equal(t, 2*time.Second, config.Orchestrator.InternalTimeout)
	assert.Equal(t, 15*time.Second, config.Orchestrator.ResearchTimeout)

	require.NoError(t, config.Validate())
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment = "production"

[storage.badger]
path = "/var/lib/optionsintel"

[logging]
level = "debug"

[router]
relevance_threshold = 0.75
enable_hybrid = false

[cache]
max_news_articles = 50
`)

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "/var/lib/optionsintel", config.Storage.Badger.Path)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.InDelta(t, 0.75, config.Router.RelevanceThreshold, 1e-9)
	assert.False(t, config.Router.EnableHybrid)
	assert.Equal(t, 50, config.Cache.MaxNewsArticles)

	// Untouched sections keep their defaults.
	assert.Equal(t, 4, config.Cache.MaxEarningsQuarters)
	assert.Equal(t, "basic", config.Research.Depth)
}

func TestLoadFromFileMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadFromFileEmptyPathUsesDefaults(t *testing.T) {
	config, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, "development", config.Environment)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "verbose"
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPTIONSINTEL_ENV", "production")
	t.Setenv("OPTIONSINTEL_BADGER_PATH", "/tmp/oi-data")
	t.Setenv("TAVILY_API_KEY", "tvly-test")
	t.Setenv("OPTIONSINTEL_ROUTER_RELEVANCE_THRESHOLD", "0.8")

	config, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "/tmp/oi-data", config.Storage.Badger.Path)
	assert.Equal(t, "tvly-test", config.Research.APIKey)
	assert.InDelta(t, 0.8, config.Router.RelevanceThreshold, 1e-9)
}

func TestEnvAPIKeyPrecedence(t *testing.T) {
	t.Setenv("OPTIONSINTEL_RESEARCH_API_KEY", "primary")
	t.Setenv("TAVILY_API_KEY", "fallback")

	config, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, "primary", config.Research.APIKey)
}
