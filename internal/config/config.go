package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/baharkarakas/authmonitor/internal/remote"
)

type Config struct {
	Env             string
	HTTPPort        string
	APIBaseURL      string
	JWTSecret       string
	JWTIssuer       string
	SessionTTL      time.Duration
	PageSize        int
	RateRPS         int
	UpstreamTimeout time.Duration
	CORSOrigins     []string
	Workers         int
	SecureCookie    bool
}

// fileConfig is the YAML shape. Durations are strings ("30m") and unset keys
// leave the defaults alone.
type fileConfig struct {
	Env             string   `yaml:"env"`
	HTTPPort        string   `yaml:"http_port"`
	APIBaseURL      string   `yaml:"api_base_url"`
	JWTSecret       string   `yaml:"jwt_secret"`
	JWTIssuer       string   `yaml:"jwt_issuer"`
	SessionTTL      string   `yaml:"session_ttl"`
	PageSize        int      `yaml:"page_size"`
	RateRPS         *int     `yaml:"rate_rps"`
	UpstreamTimeout string   `yaml:"upstream_timeout"`
	CORSOrigins     []string `yaml:"cors_origins"`
	Workers         int      `yaml:"workers"`
	SecureCookie    *bool    `yaml:"secure_cookie"`
}

func Defaults() Config {
	return Config{
		Env:         "dev",
		HTTPPort:    "8080",
		APIBaseURL:  remote.DefaultBaseURL,
		JWTSecret:   "changeme-secret",
		JWTIssuer:   "authmonitor",
		SessionTTL:  time.Hour,
		PageSize:    5,
		RateRPS:     100,
		CORSOrigins: []string{"*"},
		Workers:     4,
	}
}

// Load reads the environment on top of the defaults. CONFIG_FILE, when set,
// is applied first.
func Load() (Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile applies an optional YAML file and then the environment. An empty
// path skips the file.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := fc.apply(&cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) error {
	setStr(&cfg.Env, fc.Env)
	setStr(&cfg.HTTPPort, fc.HTTPPort)
	setStr(&cfg.APIBaseURL, fc.APIBaseURL)
	setStr(&cfg.JWTSecret, fc.JWTSecret)
	setStr(&cfg.JWTIssuer, fc.JWTIssuer)
	if fc.PageSize > 0 {
		cfg.PageSize = fc.PageSize
	}
	if fc.RateRPS != nil {
		cfg.RateRPS = *fc.RateRPS
	}
	if fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if len(fc.CORSOrigins) > 0 {
		cfg.CORSOrigins = fc.CORSOrigins
	}
	if fc.SecureCookie != nil {
		cfg.SecureCookie = *fc.SecureCookie
	}
	if fc.SessionTTL != "" {
		d, err := time.ParseDuration(fc.SessionTTL)
		if err != nil {
			return fmt.Errorf("session_ttl: %w", err)
		}
		cfg.SessionTTL = d
	}
	if fc.UpstreamTimeout != "" {
		d, err := time.ParseDuration(fc.UpstreamTimeout)
		if err != nil {
			return fmt.Errorf("upstream_timeout: %w", err)
		}
		cfg.UpstreamTimeout = d
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Env = get("APP_ENV", cfg.Env)
	cfg.HTTPPort = get("HTTP_PORT", cfg.HTTPPort)
	cfg.APIBaseURL = get("API_BASE_URL", cfg.APIBaseURL)
	cfg.JWTSecret = get("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = get("JWT_ISSUER", cfg.JWTIssuer)
	cfg.CORSOrigins = getList("CORS_ORIGINS", cfg.CORSOrigins)

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", cfg.SessionTTL); err != nil {
		return err
	}
	if cfg.UpstreamTimeout, err = getDuration("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout); err != nil {
		return err
	}
	if cfg.PageSize, err = getInt("PAGE_SIZE", cfg.PageSize); err != nil {
		return err
	}
	if cfg.RateRPS, err = getInt("RATE_RPS", cfg.RateRPS); err != nil {
		return err
	}
	if cfg.Workers, err = getInt("WORKERS", cfg.Workers); err != nil {
		return err
	}
	if v := os.Getenv("SECURE_COOKIE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SECURE_COOKIE: %w", err)
		}
		cfg.SecureCookie = b
	}
	return nil
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func get(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
