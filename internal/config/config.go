// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // session snapshot lifetime
}

// ZenotiConfig covers the catalog, guest registry, and billing calls,
// which all share one upstream and one API key.
type ZenotiConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	CenterID    string `yaml:"center_id"`
	CountryCode int    `yaml:"country_code"` // mobile_phone.country_code for guest creation
}

type CatalogConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	MaxRetries      int           `yaml:"max_retries"`
	RetryBaseDelay  time.Duration `yaml:"retry_base_delay"`
}

type IdentityConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	ChallengeToken string        `yaml:"challenge_token"` // server-side app verification token
	CountryPrefix  string        `yaml:"country_prefix"`
	SendLimit      int           `yaml:"send_limit"` // OTP sends per phone per window
	SendWindow     time.Duration `yaml:"send_window"`
}

type PayUConfig struct {
	Key        string `yaml:"key"`
	Salt       string `yaml:"salt"`
	GatewayURL string `yaml:"gateway_url"`
	SuccessURL string `yaml:"success_url"`
	FailureURL string `yaml:"failure_url"`
}

type PaymentConfig struct {
	PayU PayUConfig `yaml:"payu"`
}

type PurchaseConfig struct {
	SelectGuardWindow time.Duration `yaml:"select_guard_window"` // double-submit suppression
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Zenoti   ZenotiConfig   `yaml:"zenoti"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Identity IdentityConfig `yaml:"identity"`
	Payment  PaymentConfig  `yaml:"payment"`
	Purchase PurchaseConfig `yaml:"purchase"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Zenoti.BaseURL == "" {
		cfg.Zenoti.BaseURL = "https://api.zenoti.com"
	}
	if cfg.Zenoti.CountryCode <= 0 {
		cfg.Zenoti.CountryCode = 95
	}
	if cfg.Catalog.RefreshInterval <= 0 {
		cfg.Catalog.RefreshInterval = 10 * time.Minute
	}
	if cfg.Catalog.CacheTTL <= 0 {
		cfg.Catalog.CacheTTL = 15 * time.Minute
	}
	if cfg.Catalog.MaxRetries <= 0 {
		cfg.Catalog.MaxRetries = 3
	}
	if cfg.Catalog.RetryBaseDelay <= 0 {
		cfg.Catalog.RetryBaseDelay = 2 * time.Second
	}
	if cfg.Identity.BaseURL == "" {
		cfg.Identity.BaseURL = "https://identitytoolkit.googleapis.com"
	}
	if cfg.Identity.CountryPrefix == "" {
		cfg.Identity.CountryPrefix = "+91"
	}
	if cfg.Identity.SendLimit <= 0 {
		cfg.Identity.SendLimit = 5
	}
	if cfg.Identity.SendWindow <= 0 {
		cfg.Identity.SendWindow = 10 * time.Minute
	}
	if cfg.Payment.PayU.GatewayURL == "" {
		cfg.Payment.PayU.GatewayURL = "https://secure.payu.in/_payment"
	}
	if cfg.Purchase.SelectGuardWindow <= 0 {
		cfg.Purchase.SelectGuardWindow = time.Second
	}

	// Minimal validation
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Zenoti.APIKey == "" {
		return nil, errors.New("zenoti.api_key is required")
	}
	if cfg.Zenoti.CenterID == "" {
		return nil, errors.New("zenoti.center_id is required")
	}
	if cfg.Identity.APIKey == "" {
		return nil, errors.New("identity.api_key is required")
	}
	if cfg.Payment.PayU.Key == "" || cfg.Payment.PayU.Salt == "" {
		return nil, errors.New("payment.payu.key and payment.payu.salt are required")
	}
	if cfg.Payment.PayU.SuccessURL == "" || cfg.Payment.PayU.FailureURL == "" {
		return nil, errors.New("payment.payu.success_url and payment.payu.failure_url are required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 15 * time.Minute
	}
	return d
}
