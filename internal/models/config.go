package models

// Config holds the application configuration
type Config struct {
	Provider ProviderConfig `json:"provider"`
	Database DatabaseConfig `json:"database"`
	Media    MediaConfig    `json:"media"`
	Retry    RetryConfig    `json:"retry"`
	Server   ServerConfig   `json:"server"`
	Tracing  TracingConfig  `json:"tracing"`
	LogLevel string         `json:"log_level"`
}

// ProviderConfig holds the outbound messaging provider configuration.
// The API key is never read from the config file, only from the
// environment (WACRM_PROVIDER_API_KEY).
type ProviderConfig struct {
	APIBaseURL    string `json:"api_base_url"`
	InstanceID    string `json:"instance_id"`
	JIDSuffix     string `json:"jid_suffix"`
	TimeoutSec    int    `json:"timeout_sec"`
	RetryCount    int    `json:"retry_count"`
	WebhookSecret string `json:"webhook_secret"`
}

// DatabaseConfig holds database related configurations
type DatabaseConfig struct {
	Path string `json:"path"`
}

// MediaConfig controls how uploaded media is republished.
// When InlineBase64 is true the upload endpoint returns the file content
// as base64 with its mime type instead of a hosted URL.
type MediaConfig struct {
	UploadDir       string `json:"upload_dir"`
	PublicBaseURL   string `json:"public_base_url"`
	InlineBase64    bool   `json:"inline_base64"`
	MaxUploadSizeMB int    `json:"maxUploadSizeMB"`
}

// RetryConfig holds retry related configurations
type RetryConfig struct {
	InitialBackoffMs int `json:"initialBackoffMs"`
	MaxBackoffMs     int `json:"maxBackoffMs"`
	MaxAttempts      int `json:"maxAttempts"`
}

// ServerConfig holds HTTP server related configurations
type ServerConfig struct {
	Port            int `json:"port"`
	ReadTimeoutSec  int `json:"readTimeoutSec"`
	WriteTimeoutSec int `json:"writeTimeoutSec"`
	IdleTimeoutSec  int `json:"idleTimeoutSec"`
}

// TracingConfig holds OpenTelemetry related configurations
type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"service_name"`
	ServiceVersion string  `json:"service_version"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlp_endpoint"`
	SampleRate     float64 `json:"sample_rate"`
	UseStdout      bool    `json:"use_stdout"`
}

type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
