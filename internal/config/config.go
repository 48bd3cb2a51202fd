// Package config loads service settings from defaults, an optional config
// file, a .env file and POSTPREVIEW_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "POSTPREVIEW"

// MissingEnvError is returned when required configuration is missing.
type MissingEnvError struct {
	Component string
	Variables []string
}

func (e MissingEnvError) Error() string {
	if len(e.Variables) == 0 {
		return fmt.Sprintf("%s not configured", e.Component)
	}
	return fmt.Sprintf("%s not configured (missing %s)", e.Component, strings.Join(e.Variables, ", "))
}

// Config is the resolved configuration.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
	Client    ClientConfig
	Log       LogConfig
}

type ServerConfig struct {
	Addr            string
	Mode            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	Disabled  bool
	JWTSecret string
	TokenTTL  time.Duration
}

type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

type TelemetryConfig struct {
	OTLPEndpoint string
	SamplingRate float64
	Environment  string
}

type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type LogConfig struct {
	File string
	JSON bool
}

// EnvName maps a config key such as "auth.jwt_secret" to its environment variable.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("auth.disabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.cache_ttl", "5m")

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.sampling_rate", 1.0)
	v.SetDefault("telemetry.environment", "development")

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.token", "")
	v.SetDefault("client.timeout", "15s")

	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
}

// Load resolves configuration. configPath may be empty.
func Load(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:            strings.TrimSpace(v.GetString("server.addr")),
			Mode:            strings.TrimSpace(v.GetString("server.mode")),
			AllowedOrigins:  v.GetStringSlice("server.allowed_origins"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Auth: AuthConfig{
			Disabled:  v.GetBool("auth.disabled"),
			JWTSecret: strings.TrimSpace(v.GetString("auth.jwt_secret")),
			TokenTTL:  v.GetDuration("auth.token_ttl"),
		},
		Redis: RedisConfig{
			URL:      strings.TrimSpace(v.GetString("redis.url")),
			CacheTTL: v.GetDuration("redis.cache_ttl"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: strings.TrimSpace(v.GetString("telemetry.otlp_endpoint")),
			SamplingRate: v.GetFloat64("telemetry.sampling_rate"),
			Environment:  strings.TrimSpace(v.GetString("telemetry.environment")),
		},
		Client: ClientConfig{
			BaseURL: strings.TrimSpace(v.GetString("client.base_url")),
			Token:   strings.TrimSpace(v.GetString("client.token")),
			Timeout: v.GetDuration("client.timeout"),
		},
		Log: LogConfig{
			File: strings.TrimSpace(v.GetString("log.file")),
			JSON: v.GetBool("log.json"),
		},
	}

	return cfg, nil
}

// RequireSigningKey reports a MissingEnvError when tokens cannot be signed or verified.
func (c Config) RequireSigningKey() error {
	if c.Auth.JWTSecret == "" {
		return MissingEnvError{Component: "auth", Variables: []string{EnvName("auth.jwt_secret")}}
	}
	return nil
}

// ValidateServer checks the settings needed to run the HTTP service.
func (c Config) ValidateServer() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, MissingEnvError{Component: "server", Variables: []string{EnvName("server.addr")}})
	}
	if !c.Auth.Disabled {
		if err := c.RequireSigningKey(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("telemetry sampling rate %v out of range [0,1]", c.Telemetry.SamplingRate))
	}
	return errors.Join(errs...)
}
