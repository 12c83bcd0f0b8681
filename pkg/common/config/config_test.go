package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TRIAGE_API_KEY", "")
	t.Setenv("TRIAGE_PAGE_LIMIT", "")

	cfg := Load()
	assert.Equal(t, "https://assessment.ksensetech.com/api", cfg.APIBaseURL)
	assert.Equal(t, 20, cfg.PageLimit)
	assert.Equal(t, 3, cfg.RetryMax)
	assert.Equal(t, time.Second, cfg.RetryBaseDelay)
	assert.Equal(t, "memory", cfg.StatusStore)
	assert.Empty(t, cfg.EventsTopic)

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRIAGE_API_KEY")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TRIAGE_API_KEY", "ak_test")
	t.Setenv("TRIAGE_PAGE_LIMIT", "5")
	t.Setenv("TRIAGE_RETRY_MAX", "6")
	t.Setenv("TRIAGE_RETRY_BASE_DELAY", "250ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SUBMISSION_LOG_ENABLED", "true")
	t.Setenv("STATUS_STORE", "redis")
	t.Setenv("TRIAGE_MAX_CONNS", "2")
	t.Setenv("TRIAGE_USER_AGENT", "triage-ci/0.1")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "ak_test", cfg.APIKey)
	assert.Equal(t, 5, cfg.PageLimit)
	assert.Equal(t, 6, cfg.RetryMax)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryBaseDelay)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.SubmissionLogEnabled)
	assert.Equal(t, 2, cfg.MaxConns)
	assert.Equal(t, "triage-ci/0.1", cfg.UserAgent)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{APIKey: "k", APIBaseURL: "http://x", PageLimit: 0, RetryMax: -1, StatusStore: "disk"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRIAGE_PAGE_LIMIT")
	assert.Contains(t, err.Error(), "TRIAGE_RETRY_MAX")
	assert.Contains(t, err.Error(), "STATUS_STORE")
}
