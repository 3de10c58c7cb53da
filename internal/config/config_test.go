package config_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/aretw0/setlist/internal/config"
	"github.com/aretw0/setlist/internal/testutils"
	"github.com/aretw0/setlist/pkg/decode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Parse([]byte("listen: \":9090\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"en", "es", "pt"}, cfg.Lang.Supported)
}

func TestParse_Full(t *testing.T) {
	data := []byte(`
listen: ":7000"
log:
  level: debug
  format: json
lang:
  cookie: setlist_lang
  supported: [pt-BR, en]
tokens:
  backend: redis
  redis:
    addr: cache:6379
    db: 2
`)
	cfg, err := config.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, config.Config{
		Listen: ":7000",
		Log:    config.LogConfig{Level: "debug", Format: "json"},
		Lang:   config.LangConfig{Cookie: "setlist_lang", Supported: []string{"pt-BR", "en"}},
		Tokens: config.TokensConfig{
			Backend: config.BackendRedis,
			Redis:   config.RedisConfig{Addr: "cache:6379", DB: 2},
		},
	}, cfg)
}

func TestParse_Violations(t *testing.T) {
	tests := []struct {
		desc      string
		yaml      string
		wantField string
		wantKey   string
	}{
		{"bad level", "log:\n  level: loud\n", "log.level", "logLevelInvalid"},
		{"bad backend", "tokens:\n  backend: memcached\n", "tokens.backend", "tokenBackendInvalid"},
		{"db out of range", "tokens:\n  redis:\n    db: 99\n", "tokens.redis.db", "redisDBOutOfRange"},
		{"typo", "lsten: \":80\"\n", "lsten", "unknownField"},
		{"nested typo", "log:\n  levle: info\n", "log.levle", "unknownField"},
		{"short token key", "tokens:\n  encryption_key: c2hvcnQ=\n", "tokens.encryption_key", "tokenKeyInvalid"},
		{"not a mapping", "- listen\n", "", "invalidType"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			de, ok := decode.AsError(err)
			require.True(t, ok, "error = %v", err)
			v, _ := de.First()
			assert.Equal(t, tt.wantField, v.Field)
			assert.Equal(t, tt.wantKey, v.MessageKey)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := config.Parse([]byte("listen: [unclosed"))
	assert.True(t, errors.Is(err, decode.ErrMalformed))
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		config.EnvListen:    ":1234",
		config.EnvLogLevel:  "warn",
		config.EnvRedisAddr: "redis:6379",
		config.EnvRedisDB:   "3",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg, err := config.FromEnv(config.Default(), lookup)
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.Listen)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, config.BackendRedis, cfg.Tokens.Backend)
	assert.Equal(t, "redis:6379", cfg.Tokens.Redis.Addr)
	assert.Equal(t, 3, cfg.Tokens.Redis.DB)

	env[config.EnvTokenKey] = "c2hvcnQ="
	_, err = config.FromEnv(config.Default(), lookup)
	assert.ErrorContains(t, err, config.EnvTokenKey)
	delete(env, config.EnvTokenKey)

	env[config.EnvRedisDB] = "three"
	_, err = config.FromEnv(config.Default(), lookup)
	assert.Error(t, err)

	cfg, err = config.FromEnv(config.Default(), noEnv)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestFromEnv_Violations(t *testing.T) {
	tests := []struct {
		desc      string
		env       map[string]string
		wantField string
		wantKey   string
	}{
		{"db out of range", map[string]string{config.EnvRedisDB: "99"}, "tokens.redis.db", "redisDBOutOfRange"},
		{"negative db", map[string]string{config.EnvRedisDB: "-1"}, "tokens.redis.db", "redisDBOutOfRange"},
		{"bad level", map[string]string{config.EnvLogLevel: "loud"}, "log.level", "logLevelInvalid"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := config.FromEnv(config.Default(), func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			})
			require.ErrorIs(t, err, decode.ErrInvalid)
			de, ok := decode.AsError(err)
			require.True(t, ok)
			v, _ := de.First()
			assert.Equal(t, tt.wantField, v.Field)
			assert.Equal(t, tt.wantKey, v.MessageKey)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, config.Validate(config.Default()))

	cfg := config.Default()
	cfg.Tokens.Backend = "memcached"
	assert.ErrorIs(t, config.Validate(cfg), decode.ErrInvalid)
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Log.Format)

	cfg, err = config.Load(testutils.WriteFile(t, "setlist.yaml", "log:\n  format: json\n"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)

	_, err = config.Load(testutils.WriteFile(t, "setlist.yaml", "log:\n  format: xml\n"))
	assert.ErrorIs(t, err, decode.ErrInvalid)
}
