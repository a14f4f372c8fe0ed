package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invomail/internal/config"
)

func TestExtractConfig_PrimaryConfig_LegacyFallback(t *testing.T) {
	cfg := config.ExtractConfig{
		Provider:    "bedrock",
		ModelID:     "eu.amazon.nova-lite-v1:0",
		Region:      "eu-central-1",
		TimeoutSecs: 120,
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "bedrock", primary.Provider)
	assert.Equal(t, "eu.amazon.nova-lite-v1:0", primary.ModelID)
	assert.Equal(t, "eu-central-1", primary.Region)
	assert.Equal(t, 120, primary.TimeoutSecs)
}

func TestExtractConfig_PrimaryConfig_ExplicitPrimary(t *testing.T) {
	cfg := config.ExtractConfig{
		Provider: "legacy-should-be-ignored",
		Primary: config.ExtractProviderConfig{
			Provider: "anthropic",
			ModelID:  "claude-sonnet-4-20250514",
			APIKey:   "sk-primary",
		},
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "anthropic", primary.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", primary.ModelID)
	assert.Equal(t, "sk-primary", primary.APIKey)
}

func TestExtractConfig_SecondaryConfig_NotConfigured(t *testing.T) {
	cfg := config.ExtractConfig{
		Provider: "bedrock",
	}

	secondary := cfg.SecondaryConfig()

	assert.Nil(t, secondary)
}

func TestExtractConfig_SecondaryConfig_Configured(t *testing.T) {
	cfg := config.ExtractConfig{
		Primary: config.ExtractProviderConfig{
			Provider: "bedrock",
		},
		Secondary: config.ExtractProviderConfig{
			Provider: "anthropic",
			APIKey:   "sk-secondary",
			ModelID:  "claude-sonnet-4-20250514",
		},
	}

	secondary := cfg.SecondaryConfig()

	require.NotNil(t, secondary)
	assert.Equal(t, "anthropic", secondary.Provider)
	assert.Equal(t, "sk-secondary", secondary.APIKey)
	assert.Equal(t, "claude-sonnet-4-20250514", secondary.ModelID)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, "emails/", cfg.S3.KeyPrefix)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, "Invoice Processing Bot", cfg.Email.FromName)
	assert.Equal(t, "bedrock", cfg.Extract.Provider)
	assert.Equal(t, "eu.amazon.nova-lite-v1:0", cfg.Extract.ModelID)
	assert.Equal(t, 120, cfg.Extract.TimeoutSecs)
	assert.False(t, cfg.Queue.Enabled)
	assert.Equal(t, 10, cfg.Queue.PollIntervalSecs)
	assert.Equal(t, 20, cfg.Queue.WaitSecs)
	assert.Equal(t, 5, cfg.Queue.Concurrency)
	assert.False(t, cfg.Compose.AttachWorkbook)
	assert.False(t, cfg.Compose.AttachCSV)
	assert.Equal(t, "results/", cfg.Pipeline.ArchivePrefix)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INVOMAIL_S3_BUCKET", "inbound-mail")
	t.Setenv("INVOMAIL_EMAIL_PROVIDER", "ses")
	t.Setenv("INVOMAIL_QUEUE_ENABLED", "true")
	t.Setenv("INVOMAIL_QUEUE_URL", "https://sqs.us-east-1.amazonaws.com/123456789012/inbound-mail")
	t.Setenv("INVOMAIL_EXTRACT_SECONDARY_PROVIDER", "anthropic")
	t.Setenv("INVOMAIL_EXTRACT_SECONDARY_API_KEY", "sk-backup")
	t.Setenv("INVOMAIL_PIPELINE_FALLBACK_ADDRESS", "ops@katechat.tech")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "inbound-mail", cfg.S3.Bucket)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.True(t, cfg.Queue.Enabled)
	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/123456789012/inbound-mail", cfg.Queue.URL)
	assert.Equal(t, "ops@katechat.tech", cfg.Pipeline.FallbackAddress)

	secondary := cfg.Extract.SecondaryConfig()
	require.NotNil(t, secondary)
	assert.Equal(t, "anthropic", secondary.Provider)
	assert.Equal(t, "sk-backup", secondary.APIKey)
}

func TestLoad_PlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_ExplicitPortWinsOverPlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INVOMAIL_SERVER_PORT", ":7070")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Port)
}
