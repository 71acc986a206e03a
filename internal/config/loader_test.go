package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWithEnv_Defaults(t *testing.T) {
	cfg, err := LoadWithEnv("", envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultSecretEnv, cfg.SecretEnv)
	assert.Equal(t, DefaultSignatureHeader, cfg.SignatureHeader)
	assert.Equal(t, []string{"/webhook", "/line/webhook"}, cfg.Paths)
	assert.Equal(t, int64(DefaultMaxBodySize), cfg.MaxBodyBytes)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadWithEnv_Port(t *testing.T) {
	tests := []struct {
		name string
		port string
		set  bool
		want int
	}{
		{name: "absent", want: 8080},
		{name: "valid", port: "3000", set: true, want: 3000},
		{name: "whitespace", port: " 9090 ", set: true, want: 8080},
		{name: "leading plus", port: "+80", set: true, want: 80},
		{name: "plus only", port: "+", set: true, want: 8080},
		{name: "double plus", port: "++80", set: true, want: 8080},
		{name: "plus minus", port: "+-1", set: true, want: 8080},
		{name: "leading zeros", port: "0080", set: true, want: 80},
		{name: "not a number", port: "http", set: true, want: 8080},
		{name: "negative", port: "-1", set: true, want: 8080},
		{name: "too large", port: "70000", set: true, want: 8080},
		{name: "empty", port: "", set: true, want: 8080},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{}
			if tt.set {
				env[EnvPort] = tt.port
			}
			cfg, err := LoadWithEnv("", envMap(env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Port)
		})
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"8080", 8080, true},
		{"+8080", 8080, true},
		{"0", 0, true},
		{"65535", 65535, true},
		{"65536", 0, false},
		{"8080 ", 0, false},
		{"\t8080", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePort(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadWithEnv_LogOverrides(t *testing.T) {
	cfg, err := LoadWithEnv("", envMap(map[string]string{
		EnvLogLevel:  "linehook=debug,warn",
		EnvLogFormat: "TEXT",
	}))
	require.NoError(t, err)
	assert.Equal(t, "linehook=debug,warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadWithEnv_File(t *testing.T) {
	path := writeFile(t, "linehook.yaml", `
port: 9000
secret_env: ${SECRET_NAME}
signature_header: X-Signature
paths:
  - /hooks/line
max_body_size: 64KB
log:
  level: debug
`)

	cfg, err := LoadWithEnv(path, envMap(map[string]string{"SECRET_NAME": "MY_SECRET"}))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "MY_SECRET", cfg.SecretEnv)
	assert.Equal(t, "X-Signature", cfg.SignatureHeader)
	assert.Equal(t, []string{"/hooks/line"}, cfg.Paths)
	assert.Equal(t, int64(64*1024), cfg.MaxBodyBytes)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadWithEnv_EnvBeatsFile(t *testing.T) {
	path := writeFile(t, "linehook.yaml", "port: 9000\nlog:\n  level: debug\n")

	cfg, err := LoadWithEnv(path, envMap(map[string]string{
		EnvPort:     "7000",
		EnvLogLevel: "error",
	}))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadWithEnv_UnresolvedSecretEnv(t *testing.T) {
	path := writeFile(t, "linehook.yaml", "secret_env: ${MISSING}\n")

	_, err := LoadWithEnv(path, envMap(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved")
}

func TestLoadWithEnv_UnresolvedPlaceholderKeptElsewhere(t *testing.T) {
	path := writeFile(t, "linehook.yaml", "paths:\n  - /hooks/${MISSING}\n")

	cfg, err := LoadWithEnv(path, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"/hooks/${MISSING}"}, cfg.Paths)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"), envMap(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadWithEnv_BadYAML(t *testing.T) {
	path := writeFile(t, "linehook.yaml", "port: [unterminated\n")

	_, err := LoadWithEnv(path, envMap(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadDotEnv(t *testing.T) {
	const key = "LINEHOOK_DOTENV_TEST"
	path := writeFile(t, ".env", key+"=from-file\n")

	t.Setenv(key, "")
	os.Unsetenv(key)

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	const key = "LINEHOOK_DOTENV_KEEP"
	path := writeFile(t, ".env", key+"=from-file\n")

	t.Setenv(key, "from-env")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv(key))
}
