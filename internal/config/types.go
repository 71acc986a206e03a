package config

// Config represents the complete linehook configuration.
type Config struct {
	// Port is the TCP port bound on all interfaces.
	Port int `yaml:"port"`

	// SecretEnv names the environment variable holding the channel secret.
	// The variable is read on every request, never at load time.
	SecretEnv string `yaml:"secret_env"`

	// SignatureHeader is the HTTP header carrying the base64 HMAC signature.
	SignatureHeader string `yaml:"signature_header"`

	// Paths are the URL paths that accept webhook deliveries.
	Paths []string `yaml:"paths"`

	// MaxBodySize accepts plain byte counts or KB/MB/GB suffixes ("1MB").
	MaxBodySize string `yaml:"max_body_size,omitempty"`

	Log LogConfig `yaml:"log"`

	// MaxBodyBytes is MaxBodySize resolved by Validate.
	MaxBodyBytes int64 `yaml:"-"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level is a severity filter, e.g. "info" or "linehook=debug,warn".
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Environment variables recognized by Load.
const (
	EnvPort       = "PORT"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLogFormat  = "LOG_FORMAT"
	EnvConfigPath = "LINEHOOK_CONFIG"
)

// Default values
const (
	DefaultPort            = 8080
	DefaultSecretEnv       = "LINE_CHANNEL_SECRET"
	DefaultSignatureHeader = "x-line-signature"
	DefaultMaxBodySize     = 2097152 // 2 MB
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// DefaultPaths are the webhook routes served when none are configured.
func DefaultPaths() []string {
	return []string{"/webhook", "/line/webhook"}
}

// Defaults returns a Config populated with default values.
func Defaults() *Config {
	return &Config{
		Port:            DefaultPort,
		SecretEnv:       DefaultSecretEnv,
		SignatureHeader: DefaultSignatureHeader,
		Paths:           DefaultPaths(),
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		MaxBodyBytes: DefaultMaxBodySize,
	}
}
