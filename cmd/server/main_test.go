package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GIN_MODE", "MODEL_PATH", "KB_PATH", "FEEDBACK_PATH",
		"DATABASE_URL", "ENABLE_DB", "LOG_LEVEL", "LOG_FORMAT", "TOP_K", "TOP_KEYWORDS"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "models/text_clf.json", cfg.ModelPath)
	assert.Equal(t, "knowledge_base/guidelines_demo.json", cfg.KBPath)
	assert.Equal(t, "feedback.csv", cfg.FeedbackPath)
	assert.False(t, cfg.EnableDB)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 8, cfg.TopKeywords)
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("ENABLE_DB", "true")
	t.Setenv("DATABASE_URL", "")

	_, err := loadConfig()
	assert.ErrorContains(t, err, "DATABASE_URL is required")
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENABLE_DB", "TRUE")
	t.Setenv("DATABASE_URL", "postgres://localhost/symptomrx")
	t.Setenv("TOP_K", "5")
	t.Setenv("TOP_KEYWORDS", "4")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.EnableDB)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 4, cfg.TopKeywords)
}

func TestLoadConfigRejectsBadInts(t *testing.T) {
	t.Setenv("ENABLE_DB", "false")
	for _, val := range []string{"zero", "0", "-2"} {
		t.Setenv("TOP_K", val)
		_, err := loadConfig()
		assert.ErrorContains(t, err, "TOP_K", val)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SYMPTOMRX_TEST", "")
	assert.Equal(t, "fallback", getEnv("SYMPTOMRX_TEST", "fallback"))
	t.Setenv("SYMPTOMRX_TEST", "set")
	assert.Equal(t, "set", getEnv("SYMPTOMRX_TEST", "fallback"))
}
