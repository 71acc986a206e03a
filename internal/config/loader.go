package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set.
// Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load builds the configuration from the process environment and, when
// configPath is non-empty, a YAML file.
func Load(configPath string) (*Config, error) {
	return LoadWithEnv(configPath, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment.
//
// Precedence, lowest first: defaults, YAML file, environment variables.
// The channel secret is not part of the result; see SecretEnv.
func LoadWithEnv(configPath string, lookup LookupFunc) (*Config, error) {
	cfg := Defaults()

	if configPath != "" {
		fileCfg, err := loadConfigFile(configPath, lookup)
		if err != nil {
			return nil, err
		}
		cfg = applyConfigDefaults(fileCfg)
	}

	applyEnvOverrides(cfg, lookup)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(configPath string, lookup LookupFunc) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or the %s variable", absPath, EnvConfigPath)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(interpolateEnv(string(data), lookup)), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", absPath, err)
	}
	return &cfg, nil
}

// applyConfigDefaults fills zero-valued fields from Defaults.
func applyConfigDefaults(cfg *Config) *Config {
	defaults := Defaults()

	if cfg.Port == 0 {
		cfg.Port = defaults.Port
	}
	if cfg.SecretEnv == "" {
		cfg.SecretEnv = defaults.SecretEnv
	}
	if cfg.SignatureHeader == "" {
		cfg.SignatureHeader = defaults.SignatureHeader
	}
	if len(cfg.Paths) == 0 {
		cfg.Paths = defaults.Paths
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}

	return cfg
}

// applyEnvOverrides applies PORT, LOG_LEVEL and LOG_FORMAT.
// An unparsable PORT is ignored so the configured or default port stays.
func applyEnvOverrides(cfg *Config, lookup LookupFunc) {
	if v, ok := lookup(EnvPort); ok {
		if port, ok := ParsePort(v); ok {
			cfg.Port = port
		}
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && strings.TrimSpace(v) != "" {
		cfg.Log.Format = strings.ToLower(strings.TrimSpace(v))
	}
}

// ParsePort parses a TCP port number (0-65535). The value is taken as is:
// surrounding whitespace is rejected and a single leading '+' is allowed.
func ParsePort(s string) (int, bool) {
	p, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 16)
	if err != nil {
		return 0, false
	}
	return int(p), true
}

func interpolateEnv(input string, lookup LookupFunc) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]

		if value, exists := lookup(varName); exists {
			return value
		}

		// Left in place; Validate rejects it only inside secret_env.
		return match
	})
}
