// Package config loads the setlist server configuration.
//
// The YAML file goes through the same decode boundary as every other
// untrusted input, so a typo in a key or a bad value is reported with its
// path and message key.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/guard"
	"github.com/aretw0/setlist/pkg/schema"
	"github.com/aretw0/setlist/pkg/tokencache"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "setlist.yaml"

// Environment overrides.
const (
	EnvListen    = "SETLIST_LISTEN"
	EnvLogLevel  = "SETLIST_LOG_LEVEL"
	EnvRedisAddr = "SETLIST_REDIS_ADDR"
	EnvRedisDB   = "SETLIST_REDIS_DB"
	EnvTokenKey  = "SETLIST_TOKEN_KEY"
)

// Token cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Listen string       `json:"listen"`
	Log    LogConfig    `json:"log"`
	Lang   LangConfig   `json:"lang"`
	Tokens TokensConfig `json:"tokens"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type LangConfig struct {
	Cookie    string   `json:"cookie"`
	Supported []string `json:"supported"`
}

type TokensConfig struct {
	Backend string      `json:"backend"`
	Redis   RedisConfig `json:"redis"`

	// EncryptionKey is a base64 AES-256 key. Empty stores tokens in clear.
	EncryptionKey string `json:"encryption_key,omitempty"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// Schema describes the configuration file. Unknown keys are rejected at
// every level.
var Schema = schema.Object(
	schema.Opt("listen", schema.Constrained(schema.String(), schema.NonEmpty("listenRequired"))),
	schema.Opt("log", schema.Object(
		schema.Opt("level", schema.Constrained(schema.String(),
			schema.OneOf("logLevelInvalid", "debug", "info", "warn", "error"))),
		schema.Opt("format", schema.Constrained(schema.String(),
			schema.OneOf("logFormatInvalid", "text", "json"))),
	).Strict()),
	schema.Opt("lang", schema.Object(
		schema.Opt("cookie", schema.Constrained(schema.String(), schema.NonEmpty("langCookieRequired"))),
		schema.Opt("supported", schema.Constrained(schema.Slice(schema.String()),
			schema.NonEmpty("langSupportedRequired"))),
	).Strict()),
	schema.Opt("tokens", schema.Object(
		schema.Opt("backend", schema.Constrained(schema.String(),
			schema.OneOf("tokenBackendInvalid", BackendMemory, BackendRedis))),
		schema.Opt("redis", schema.Object(
			schema.Opt("addr", schema.String()),
			schema.Opt("password", schema.String()),
			schema.Opt("db", schema.Constrained(schema.Int(), schema.Range(0, 15, "redisDBOutOfRange"))),
		).Strict()),
		schema.Opt("encryption_key", schema.Constrained(schema.String(),
			schema.Refine("tokenKeyInvalid", func(v any) error {
				s, _ := guard.AsString(v)
				_, err := tokencache.ParseKey(s)
				return err
			}))),
	).Strict()),
).Strict()

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Listen: ":8080",
		Log:    LogConfig{Level: "info", Format: "text"},
		Lang:   LangConfig{Cookie: "lang", Supported: []string{"en", "es", "pt"}},
		Tokens: TokensConfig{
			Backend: BackendMemory,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
	}
}

// Load reads path, applies defaults and environment overrides. A missing
// file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FromEnv(Default(), os.LookupEnv)
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return FromEnv(cfg, os.LookupEnv)
}

// Parse decodes a YAML document and fills unset keys with defaults.
func Parse(data []byte) (Config, error) {
	raw, err := decode.ParseYAML(data)
	if err != nil {
		return Config{}, err
	}
	if raw == nil {
		return Default(), nil
	}

	cfg, err := decode.UnknownSync[Config](Schema, raw)
	if err != nil {
		return Config{}, err
	}
	return withDefaults(cfg), nil
}

func withDefaults(cfg Config) Config {
	def := Default()
	if cfg.Listen == "" {
		cfg.Listen = def.Listen
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Lang.Cookie == "" {
		cfg.Lang.Cookie = def.Lang.Cookie
	}
	if len(cfg.Lang.Supported) == 0 {
		cfg.Lang.Supported = def.Lang.Supported
	}
	if cfg.Tokens.Backend == "" {
		cfg.Tokens.Backend = def.Tokens.Backend
	}
	if cfg.Tokens.Redis.Addr == "" {
		cfg.Tokens.Redis.Addr = def.Tokens.Redis.Addr
	}
	return cfg
}

// FromEnv applies the SETLIST_* overrides found by lookup.
func FromEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup(EnvListen); ok && v != "" {
		cfg.Listen = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		cfg.Tokens.Redis.Addr = v
		cfg.Tokens.Backend = BackendRedis
	}
	if v, ok := lookup(EnvTokenKey); ok && v != "" {
		if _, err := tokencache.ParseKey(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTokenKey, err)
		}
		cfg.Tokens.EncryptionKey = v
	}
	if v, ok := lookup(EnvRedisDB); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvRedisDB, err)
		}
		cfg.Tokens.Redis.DB = db
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("environment overrides: %w", err)
	}
	return cfg, nil
}

// Validate runs cfg back through Schema, so values set outside the YAML
// file are held to the same rules.
func Validate(cfg Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	raw, err := decode.ParseJSON(data)
	if err != nil {
		return err
	}
	_, err = decode.UnknownSync[Config](Schema, raw)
	return err
}
