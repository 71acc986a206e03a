package config

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Validate checks the configuration and resolves MaxBodyBytes.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	if strings.TrimSpace(c.SecretEnv) == "" {
		return fmt.Errorf("secret_env must not be empty")
	}
	if strings.Contains(c.SecretEnv, "${") {
		return fmt.Errorf("secret_env %q contains an unresolved variable", c.SecretEnv)
	}

	if c.SignatureHeader == "" {
		return fmt.Errorf("signature_header must not be empty")
	}
	if canonical := http.CanonicalHeaderKey(c.SignatureHeader); strings.ContainsAny(canonical, " \t:") {
		return fmt.Errorf("signature_header %q is not a valid header name", c.SignatureHeader)
	}

	if len(c.Paths) == 0 {
		return fmt.Errorf("at least one webhook path is required")
	}
	seen := make(map[string]bool, len(c.Paths))
	for i, p := range c.Paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("paths[%d]: %q must start with '/'", i, p)
		}
		if p == "/health" {
			return fmt.Errorf("paths[%d]: %q is reserved", i, p)
		}
		if seen[p] {
			return fmt.Errorf("paths[%d]: duplicate path %q", i, p)
		}
		seen[p] = true
	}

	maxBody, err := parseMaxBodySize(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size %q: %w", c.MaxBodySize, err)
	}
	c.MaxBodyBytes = maxBody

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q must be json or text", c.Log.Format)
	}

	return nil
}

// parseMaxBodySize parses size strings like "512KB", "2MB" or "2097152" to bytes.
// An empty value means the 2MB default.
func parseMaxBodySize(size string) (int64, error) {
	if size == "" {
		return DefaultMaxBodySize, nil
	}

	// Handle unit suffixes (KB, MB, GB)
	upper := strings.ToUpper(strings.TrimSpace(size))
	multiplier := int64(1)

	switch {
	case strings.HasSuffix(upper, "KB"):
		multiplier = 1024
		upper = strings.TrimSuffix(upper, "KB")
	case strings.HasSuffix(upper, "MB"):
		multiplier = 1024 * 1024
		upper = strings.TrimSuffix(upper, "MB")
	case strings.HasSuffix(upper, "GB"):
		multiplier = 1024 * 1024 * 1024
		upper = strings.TrimSuffix(upper, "GB")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(upper), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %w", err)
	}

	if value <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}

	result := value * multiplier
	if result/multiplier != value {
		return 0, fmt.Errorf("size too large")
	}

	return result, nil
}
