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
	CORS     CORSConfig
	Backends BackendsConfig
	Validate ValidateConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// S3Config holds object storage settings for uploaded report PDFs.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BackendConfig holds settings for a single LLM backend.
type BackendConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// BackendsConfig holds the three backend slots. ModelA is the cheap primary,
// ModelB the high-accuracy secondary, ModelC the last-resort tertiary.
type BackendsConfig struct {
	ModelA BackendConfig `mapstructure:"model_a"`
	ModelB BackendConfig `mapstructure:"model_b"`
	ModelC BackendConfig `mapstructure:"model_c"`
}

// ValidateConfig holds validation pipeline settings.
type ValidateConfig struct {
	// ParallelThresholdMB is the document size above which the parallel hint
	// is honored.
	ParallelThresholdMB int64 `mapstructure:"parallel_threshold_mb"`
	// RetryMaxAttempts bounds rate-limit retries on the single-backend path.
	RetryMaxAttempts int `mapstructure:"retry_max_attempts"`
	// RetryBaseDelayMs is the initial backoff delay, doubled per attempt.
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms"`
}

// Load reads configuration from environment variables with the INSUREPORT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INSUREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// S3 defaults
	v.SetDefault("s3.region", "ap-northeast-2")
	v.SetDefault("s3.bucket", "insureport-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Backend defaults
	v.SetDefault("backends.model_a.provider", "gemini")
	v.SetDefault("backends.model_a.api_key", "")
	v.SetDefault("backends.model_a.model", "gemini-2.0-flash")
	v.SetDefault("backends.model_a.timeout_secs", 120)
	v.SetDefault("backends.model_b.provider", "openai")
	v.SetDefault("backends.model_b.api_key", "")
	v.SetDefault("backends.model_b.model", "gpt-4o")
	v.SetDefault("backends.model_b.timeout_secs", 120)
	v.SetDefault("backends.model_c.provider", "claude")
	v.SetDefault("backends.model_c.api_key", "")
	v.SetDefault("backends.model_c.model", "claude-sonnet-4-20250514")
	v.SetDefault("backends.model_c.timeout_secs", 120)

	// Validation defaults
	v.SetDefault("validate.parallel_threshold_mb", 5)
	v.SetDefault("validate.retry_max_attempts", 3)
	v.SetDefault("validate.retry_base_delay_ms", 1000)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "INSUREPORT_SERVER_PORT",
		"server.read_timeout":            "INSUREPORT_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "INSUREPORT_SERVER_WRITE_TIMEOUT",
		"server.environment":             "INSUREPORT_SERVER_ENVIRONMENT",
		"s3.region":                      "INSUREPORT_S3_REGION",
		"s3.bucket":                      "INSUREPORT_S3_BUCKET",
		"s3.endpoint":                    "INSUREPORT_S3_ENDPOINT",
		"s3.access_key":                  "INSUREPORT_S3_ACCESS_KEY",
		"s3.secret_key":                  "INSUREPORT_S3_SECRET_KEY",
		"s3.max_file_size_mb":            "INSUREPORT_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":              "INSUREPORT_S3_PRESIGN_EXPIRY",
		"log.level":                      "INSUREPORT_LOG_LEVEL",
		"log.format":                     "INSUREPORT_LOG_FORMAT",
		"cors.allowed_origins":           "INSUREPORT_CORS_ALLOWED_ORIGINS",
		"backends.model_a.provider":      "INSUREPORT_BACKENDS_MODEL_A_PROVIDER",
		"backends.model_a.api_key":       "INSUREPORT_BACKENDS_MODEL_A_API_KEY",
		"backends.model_a.model":         "INSUREPORT_BACKENDS_MODEL_A_MODEL",
		"backends.model_a.timeout_secs":  "INSUREPORT_BACKENDS_MODEL_A_TIMEOUT_SECS",
		"backends.model_b.provider":      "INSUREPORT_BACKENDS_MODEL_B_PROVIDER",
		"backends.model_b.api_key":       "INSUREPORT_BACKENDS_MODEL_B_API_KEY",
		"backends.model_b.model":         "INSUREPORT_BACKENDS_MODEL_B_MODEL",
		"backends.model_b.timeout_secs":  "INSUREPORT_BACKENDS_MODEL_B_TIMEOUT_SECS",
		"backends.model_c.provider":      "INSUREPORT_BACKENDS_MODEL_C_PROVIDER",
		"backends.model_c.api_key":       "INSUREPORT_BACKENDS_MODEL_C_API_KEY",
		"backends.model_c.model":         "INSUREPORT_BACKENDS_MODEL_C_MODEL",
		"backends.model_c.timeout_secs":  "INSUREPORT_BACKENDS_MODEL_C_TIMEOUT_SECS",
		"validate.parallel_threshold_mb": "INSUREPORT_VALIDATE_PARALLEL_THRESHOLD_MB",
		"validate.retry_max_attempts":    "INSUREPORT_VALIDATE_RETRY_MAX_ATTEMPTS",
		"validate.retry_base_delay_ms":   "INSUREPORT_VALIDATE_RETRY_BASE_DELAY_MS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INSUREPORT_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INSUREPORT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Backends = BackendsConfig{
		ModelA: BackendConfig{
			Provider:    v.GetString("backends.model_a.provider"),
			APIKey:      v.GetString("backends.model_a.api_key"),
			Model:       v.GetString("backends.model_a.model"),
			TimeoutSecs: v.GetInt("backends.model_a.timeout_secs"),
		},
		ModelB: BackendConfig{
			Provider:    v.GetString("backends.model_b.provider"),
			APIKey:      v.GetString("backends.model_b.api_key"),
			Model:       v.GetString("backends.model_b.model"),
			TimeoutSecs: v.GetInt("backends.model_b.timeout_secs"),
		},
		ModelC: BackendConfig{
			Provider:    v.GetString("backends.model_c.provider"),
			APIKey:      v.GetString("backends.model_c.api_key"),
			Model:       v.GetString("backends.model_c.model"),
			TimeoutSecs: v.GetInt("backends.model_c.timeout_secs"),
		},
	}

	cfg.Validate = ValidateConfig{
		ParallelThresholdMB: v.GetInt64("validate.parallel_threshold_mb"),
		RetryMaxAttempts:    v.GetInt("validate.retry_max_attempts"),
		RetryBaseDelayMs:    v.GetInt("validate.retry_base_delay_ms"),
	}

	return cfg, nil
}
