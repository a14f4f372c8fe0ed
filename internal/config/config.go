package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	S3       S3Config
	Log      LogConfig
	Extract  ExtractConfig
	Queue    QueueConfig
	Email    EmailConfig
	Compose  ComposeConfig
	Pipeline PipelineConfig
}

// EmailConfig holds outbound email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// QueueConfig holds SQS polling worker settings.
type QueueConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	URL              string `mapstructure:"url"`
	Region           string `mapstructure:"region"`
	Endpoint         string `mapstructure:"endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	PollIntervalSecs int    `mapstructure:"poll_interval_secs"`
	WaitSecs         int    `mapstructure:"wait_secs"`
	Concurrency      int    `mapstructure:"concurrency"`
}

// ExtractProviderConfig holds settings for a single document model provider.
type ExtractProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	ModelID     string `mapstructure:"model_id"`
	Region      string `mapstructure:"region"`
	APIKey      string `mapstructure:"api_key"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractConfig holds document model settings with multi-provider support.
type ExtractConfig struct {
	// Legacy flat fields (backwards-compatible)
	Provider    string `mapstructure:"provider"`
	ModelID     string `mapstructure:"model_id"`
	Region      string `mapstructure:"region"`
	APIKey      string `mapstructure:"api_key"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`

	// Multi-provider fields
	Primary   ExtractProviderConfig `mapstructure:"primary"`
	Secondary ExtractProviderConfig `mapstructure:"secondary"`
}

// PrimaryConfig returns the primary model provider config, falling back to legacy flat fields.
func (e *ExtractConfig) PrimaryConfig() *ExtractProviderConfig {
	if e.Primary.Provider != "" {
		return &e.Primary
	}
	return &ExtractProviderConfig{
		Provider:    e.Provider,
		ModelID:     e.ModelID,
		Region:      e.Region,
		APIKey:      e.APIKey,
		AccessKey:   e.AccessKey,
		SecretKey:   e.SecretKey,
		TimeoutSecs: e.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary model provider config, or nil if not configured.
func (e *ExtractConfig) SecondaryConfig() *ExtractProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// S3Config holds AWS S3 settings for the inbound mail bucket.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ComposeConfig holds results message assembly settings.
type ComposeConfig struct {
	AttachWorkbook bool `mapstructure:"attach_workbook"`
	AttachCSV      bool `mapstructure:"attach_csv"`
}

// PipelineConfig holds end-to-end processing settings.
type PipelineConfig struct {
	// FallbackAddress receives results when the sender cannot be resolved.
	FallbackAddress string `mapstructure:"fallback_address"`
	ArchiveResults  bool   `mapstructure:"archive_results"`
	ArchivePrefix   string `mapstructure:"archive_prefix"`
}

// Load reads configuration from environment variables with the INVOMAIL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOMAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.key_prefix", "emails/")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Queue defaults
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.url", "")
	v.SetDefault("queue.region", "us-east-1")
	v.SetDefault("queue.endpoint", "")
	v.SetDefault("queue.access_key", "")
	v.SetDefault("queue.secret_key", "")
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.wait_secs", 20)
	v.SetDefault("queue.concurrency", 5)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "invoice-bot@katechat.tech")
	v.SetDefault("email.from_name", "Invoice Processing Bot")

	// Extract defaults (legacy flat)
	v.SetDefault("extract.provider", "bedrock")
	v.SetDefault("extract.model_id", "eu.amazon.nova-lite-v1:0")
	v.SetDefault("extract.region", "us-east-1")
	v.SetDefault("extract.api_key", "")
	v.SetDefault("extract.access_key", "")
	v.SetDefault("extract.secret_key", "")
	v.SetDefault("extract.timeout_secs", 120)

	// Extract primary/secondary defaults
	v.SetDefault("extract.primary.provider", "")
	v.SetDefault("extract.primary.model_id", "")
	v.SetDefault("extract.primary.region", "")
	v.SetDefault("extract.primary.api_key", "")
	v.SetDefault("extract.primary.access_key", "")
	v.SetDefault("extract.primary.secret_key", "")
	v.SetDefault("extract.primary.timeout_secs", 120)
	v.SetDefault("extract.secondary.provider", "")
	v.SetDefault("extract.secondary.model_id", "")
	v.SetDefault("extract.secondary.region", "")
	v.SetDefault("extract.secondary.api_key", "")
	v.SetDefault("extract.secondary.access_key", "")
	v.SetDefault("extract.secondary.secret_key", "")
	v.SetDefault("extract.secondary.timeout_secs", 120)

	// Compose defaults
	v.SetDefault("compose.attach_workbook", false)
	v.SetDefault("compose.attach_csv", false)

	// Pipeline defaults
	v.SetDefault("pipeline.fallback_address", "")
	v.SetDefault("pipeline.archive_results", false)
	v.SetDefault("pipeline.archive_prefix", "results/")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "INVOMAIL_SERVER_PORT",
		"server.read_timeout":            "INVOMAIL_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "INVOMAIL_SERVER_WRITE_TIMEOUT",
		"server.environment":             "INVOMAIL_SERVER_ENVIRONMENT",
		"s3.region":                      "INVOMAIL_S3_REGION",
		"s3.bucket":                      "INVOMAIL_S3_BUCKET",
		"s3.endpoint":                    "INVOMAIL_S3_ENDPOINT",
		"s3.access_key":                  "INVOMAIL_S3_ACCESS_KEY",
		"s3.secret_key":                  "INVOMAIL_S3_SECRET_KEY",
		"s3.key_prefix":                  "INVOMAIL_S3_KEY_PREFIX",
		"log.level":                      "INVOMAIL_LOG_LEVEL",
		"log.format":                     "INVOMAIL_LOG_FORMAT",
		"queue.enabled":                  "INVOMAIL_QUEUE_ENABLED",
		"queue.url":                      "INVOMAIL_QUEUE_URL",
		"queue.region":                   "INVOMAIL_QUEUE_REGION",
		"queue.endpoint":                 "INVOMAIL_QUEUE_ENDPOINT",
		"queue.access_key":               "INVOMAIL_QUEUE_ACCESS_KEY",
		"queue.secret_key":               "INVOMAIL_QUEUE_SECRET_KEY",
		"queue.poll_interval_secs":       "INVOMAIL_QUEUE_POLL_INTERVAL_SECS",
		"queue.wait_secs":                "INVOMAIL_QUEUE_WAIT_SECS",
		"queue.concurrency":              "INVOMAIL_QUEUE_CONCURRENCY",
		"email.provider":                 "INVOMAIL_EMAIL_PROVIDER",
		"email.region":                   "INVOMAIL_EMAIL_REGION",
		"email.from_address":             "INVOMAIL_EMAIL_FROM_ADDRESS",
		"email.from_name":                "INVOMAIL_EMAIL_FROM_NAME",
		"extract.provider":               "INVOMAIL_EXTRACT_PROVIDER",
		"extract.model_id":               "INVOMAIL_EXTRACT_MODEL_ID",
		"extract.region":                 "INVOMAIL_EXTRACT_REGION",
		"extract.api_key":                "INVOMAIL_EXTRACT_API_KEY",
		"extract.access_key":             "INVOMAIL_EXTRACT_ACCESS_KEY",
		"extract.secret_key":             "INVOMAIL_EXTRACT_SECRET_KEY",
		"extract.timeout_secs":           "INVOMAIL_EXTRACT_TIMEOUT_SECS",
		"extract.primary.provider":       "INVOMAIL_EXTRACT_PRIMARY_PROVIDER",
		"extract.primary.model_id":       "INVOMAIL_EXTRACT_PRIMARY_MODEL_ID",
		"extract.primary.region":         "INVOMAIL_EXTRACT_PRIMARY_REGION",
		"extract.primary.api_key":        "INVOMAIL_EXTRACT_PRIMARY_API_KEY",
		"extract.primary.access_key":     "INVOMAIL_EXTRACT_PRIMARY_ACCESS_KEY",
		"extract.primary.secret_key":     "INVOMAIL_EXTRACT_PRIMARY_SECRET_KEY",
		"extract.primary.timeout_secs":   "INVOMAIL_EXTRACT_PRIMARY_TIMEOUT_SECS",
		"extract.secondary.provider":     "INVOMAIL_EXTRACT_SECONDARY_PROVIDER",
		"extract.secondary.model_id":     "INVOMAIL_EXTRACT_SECONDARY_MODEL_ID",
		"extract.secondary.region":       "INVOMAIL_EXTRACT_SECONDARY_REGION",
		"extract.secondary.api_key":      "INVOMAIL_EXTRACT_SECONDARY_API_KEY",
		"extract.secondary.access_key":   "INVOMAIL_EXTRACT_SECONDARY_ACCESS_KEY",
		"extract.secondary.secret_key":   "INVOMAIL_EXTRACT_SECONDARY_SECRET_KEY",
		"extract.secondary.timeout_secs": "INVOMAIL_EXTRACT_SECONDARY_TIMEOUT_SECS",
		"compose.attach_workbook":        "INVOMAIL_COMPOSE_ATTACH_WORKBOOK",
		"compose.attach_csv":             "INVOMAIL_COMPOSE_ATTACH_CSV",
		"pipeline.fallback_address":      "INVOMAIL_PIPELINE_FALLBACK_ADDRESS",
		"pipeline.archive_results":       "INVOMAIL_PIPELINE_ARCHIVE_RESULTS",
		"pipeline.archive_prefix":        "INVOMAIL_PIPELINE_ARCHIVE_PREFIX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOMAIL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOMAIL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		KeyPrefix: v.GetString("s3.key_prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	cfg.Extract = ExtractConfig{
		Provider:    v.GetString("extract.provider"),
		ModelID:     v.GetString("extract.model_id"),
		Region:      v.GetString("extract.region"),
		APIKey:      v.GetString("extract.api_key"),
		AccessKey:   v.GetString("extract.access_key"),
		SecretKey:   v.GetString("extract.secret_key"),
		TimeoutSecs: v.GetInt("extract.timeout_secs"),
		Primary: ExtractProviderConfig{
			Provider:    v.GetString("extract.primary.provider"),
			ModelID:     v.GetString("extract.primary.model_id"),
			Region:      v.GetString("extract.primary.region"),
			APIKey:      v.GetString("extract.primary.api_key"),
			AccessKey:   v.GetString("extract.primary.access_key"),
			SecretKey:   v.GetString("extract.primary.secret_key"),
			TimeoutSecs: v.GetInt("extract.primary.timeout_secs"),
		},
		Secondary: ExtractProviderConfig{
			Provider:    v.GetString("extract.secondary.provider"),
			ModelID:     v.GetString("extract.secondary.model_id"),
			Region:      v.GetString("extract.secondary.region"),
			APIKey:      v.GetString("extract.secondary.api_key"),
			AccessKey:   v.GetString("extract.secondary.access_key"),
			SecretKey:   v.GetString("extract.secondary.secret_key"),
			TimeoutSecs: v.GetInt("extract.secondary.timeout_secs"),
		},
	}

	cfg.Queue = QueueConfig{
		Enabled:          v.GetBool("queue.enabled"),
		URL:              v.GetString("queue.url"),
		Region:           v.GetString("queue.region"),
		Endpoint:         v.GetString("queue.endpoint"),
		AccessKey:        v.GetString("queue.access_key"),
		SecretKey:        v.GetString("queue.secret_key"),
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		WaitSecs:         v.GetInt("queue.wait_secs"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	cfg.Compose = ComposeConfig{
		AttachWorkbook: v.GetBool("compose.attach_workbook"),
		AttachCSV:      v.GetBool("compose.attach_csv"),
	}

	cfg.Pipeline = PipelineConfig{
		FallbackAddress: v.GetString("pipeline.fallback_address"),
		ArchiveResults:  v.GetBool("pipeline.archive_results"),
		ArchivePrefix:   v.GetString("pipeline.archive_prefix"),
	}

	return cfg, nil
}
