package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "port range", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "out of range"},
		{name: "empty secret env", mutate: func(c *Config) { c.SecretEnv = " " }, wantErr: "secret_env"},
		{name: "empty header", mutate: func(c *Config) { c.SignatureHeader = "" }, wantErr: "signature_header"},
		{name: "bad header", mutate: func(c *Config) { c.SignatureHeader = "x line" }, wantErr: "not a valid header"},
		{name: "no paths", mutate: func(c *Config) { c.Paths = nil }, wantErr: "at least one"},
		{name: "relative path", mutate: func(c *Config) { c.Paths = []string{"webhook"} }, wantErr: "must start with"},
		{name: "reserved path", mutate: func(c *Config) { c.Paths = []string{"/health"} }, wantErr: "reserved"},
		{name: "duplicate path", mutate: func(c *Config) { c.Paths = []string{"/a", "/a"} }, wantErr: "duplicate"},
		{name: "bad body size", mutate: func(c *Config) { c.MaxBodySize = "lots" }, wantErr: "max_body_size"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseMaxBodySize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", DefaultMaxBodySize, false},
		{"2048", 2048, false},
		{"1kb", 1024, false},
		{"2MB", 2 * 1024 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"MB", 0, true},
		{"9223372036854775807GB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMaxBodySize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Defaults()
	b := Defaults()

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.Regexp(t, `^blake3:[0-9a-f]{64}$`, fa)

	b.Port = 9999
	fc, err := b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}
