package config

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/weave/web/server/handler"
)

func TestConfigSaveLoad(t *testing.T) {
	t.Parallel()

	fs := memoryfs.New()
	cfg := NewConfig(fs, "/etc/weave/config.json")

	ok, err := cfg.Exists()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cfg.Load())
	cfg.SetDefaults()
	cfg.Server.SpoolDir = sql.Null[string]{V: "/var/spool/weave", Valid: true}
	cfg.Security.Secret = sql.Null[string]{V: "secret", Valid: true}
	require.NoError(t, cfg.Save())

	data, err := vfs.ReadFile(fs, "/etc/weave/config.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"server": {
			"address": "localhost:8080",
			"error_level": "minimal",
			"max_body_size": "10 MiB",
			"spool_dir": "/var/spool/weave"
		},
		"auth": {
			"issuer": "weave",
			"token_expiration": "1d",
			"roles": {"admin": ["*"], "user": ["profile:*"]}
		},
		"security": {"secret": "secret"}
	}`, string(data))

	loaded := NewConfig(fs, "/etc/weave/config.json")
	require.NoError(t, loaded.Load())
	assert.Equal(t, cfg.Server, loaded.Server)
	assert.Equal(t, cfg.Auth, loaded.Auth)
	assert.Equal(t, cfg.Security, loaded.Security)
	assert.Equal(t, []string{"admin", "user"}, loaded.RoleNames())
}

func TestConfigUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   string
		check  func(t *testing.T, cfg *Config)
		expErr string
	}{
		{
			name: "ok/sizes_and_durations",
			data: `{"server": {"max_body_size": "512KB", "error_level": "full"},
				"auth": {"token_expiration": "1w12h"}}`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, int64(512000), cfg.Server.MaxBodySize.V)
				assert.Equal(t, handler.ErrorLevelFull, cfg.Server.ErrorLevel.V)
				assert.Equal(t, 7*24*time.Hour+12*time.Hour, cfg.Auth.TokenExpiration.V)
				assert.False(t, cfg.Server.Address.Valid)
			},
		},
		{
			name:   "err/error_level",
			data:   `{"server": {"error_level": "verbose"}}`,
			expErr: "invalid error level 'verbose'",
		},
		{
			name:   "err/max_body_size",
			data:   `{"server": {"max_body_size": "lots"}}`,
			expErr: "failed parsing server max body size",
		},
		{
			name:   "err/token_expiration_too_short",
			data:   `{"auth": {"token_expiration": "30s"}}`,
			expErr: "auth token expiration must be at least 1m",
		},
		{
			name:   "err/token_expiration_negative",
			data:   `{"auth": {"token_expiration": "-1d"}}`,
			expErr: "failed parsing auth token expiration",
		},
		{
			name:   "err/malformed",
			data:   `{"server": `,
			expErr: "failed parsing configuration file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := memoryfs.New()
			require.NoError(t, vfs.WriteFile(fs, "/config.json", []byte(tt.data), 0o600))

			cfg := NewConfig(fs, "/config.json")
			err := cfg.Load()
			if tt.expErr != "" {
				assert.ErrorContains(t, err, tt.expErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
