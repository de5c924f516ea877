package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Env      string `koanf:"env"`
		Port     string `koanf:"port"`
		LogFile  string `koanf:"log_file"`
		LogLevel string `koanf:"log_level"`
	} `koanf:"app"`

	DB struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"db"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		TokenTTL  time.Duration `koanf:"token_ttl"`
	} `koanf:"security"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	SMTP struct {
		Host string `koanf:"host"`
		Port string `koanf:"port"`
		From string `koanf:"from"`
	} `koanf:"smtp"`
}

// LoadConfig reads configs/base.yaml, overlays configs/<env>.yaml when it
// exists, then overlays SHOPGO_-prefixed environment variables
// (SHOPGO_DB__DSN -> db.dsn).
func LoadConfig(pathDir, envName string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base config: %w", err)
	}
	// Per-environment overlay is optional for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	if err := k.Load(env.Provider("SHOPGO_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "SHOPGO_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.App.Env == "" {
		cfg.App.Env = envName
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("app.port required")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn required")
	}
	// The signing key must be injected; there is no built-in fallback.
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	return nil
}
