package webhook

import (
	"net/http"
	"os"
)

// EnvSecret reads the secret from the named environment variable each time
// it is asked, so a rotated or removed secret takes effect without restart.
type EnvSecret string

// LookupSecret implements SecretSource.
func (e EnvSecret) LookupSecret() (string, bool) {
	return os.LookupEnv(string(e))
}

// Outcome is the result of authenticating a single delivery.
type Outcome int

const (
	// Authenticated means the signature matched the body.
	Authenticated Outcome = iota
	// ConfigurationError means no secret is configured.
	ConfigurationError
	// MissingSignature means the signature header was absent or unreadable.
	MissingSignature
	// InvalidSignature means the signature did not match.
	InvalidSignature
)

// StatusCode maps the outcome to the HTTP status returned to the sender.
func (o Outcome) StatusCode() int {
	switch o {
	case Authenticated:
		return http.StatusOK
	case ConfigurationError:
		return http.StatusInternalServerError
	case MissingSignature:
		return http.StatusBadRequest
	case InvalidSignature:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (o Outcome) String() string {
	switch o {
	case Authenticated:
		return "authenticated"
	case ConfigurationError:
		return "configuration_error"
	case MissingSignature:
		return "missing_signature"
	case InvalidSignature:
		return "invalid_signature"
	default:
		return "unknown"
	}
}

// Config holds webhook server configuration.
type Config struct {
	// Listen is the address passed to http.Server (e.g. "0.0.0.0:8080").
	Listen string

	// Paths are the URL paths accepting POSTed deliveries.
	Paths []string

	// SignatureHeader is the HTTP header containing the base64 HMAC signature
	SignatureHeader string

	// MaxBodySize is the maximum allowed request body size in bytes (default: 2MB)
	MaxBodySize int64
}

// Default values
const (
	DefaultMaxBodySize     = 2097152 // 2 MB
	DefaultSignatureHeader = "x-line-signature"
	DefaultPath            = "/webhook"
	HealthPath             = "/health"
)
