package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"pagepulse/internal/log"
	"pagepulse/internal/util"
)

type Config struct {
	Addr        string `mapstructure:"ADDR"`
	MetricsAddr string `mapstructure:"METRICS_ADDR"`
	PprofAddr   string `mapstructure:"PPROF_ADDR"`
	IsDev       string `mapstructure:"IS_DEV"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	LogFile   string `mapstructure:"LOG_FILE"`

	FetchTimeout time.Duration `mapstructure:"FETCH_TIMEOUT"`
	UserAgent    string        `mapstructure:"USER_AGENT"`
	MaxBodyBytes int64         `mapstructure:"MAX_BODY_BYTES"`

	RateLimitRPS     float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int           `mapstructure:"RATE_LIMIT_BURST"`
	FreeAuditsPerDay int           `mapstructure:"FREE_AUDITS_PER_DAY"`
	EntitlementTTL   time.Duration `mapstructure:"ENTITLEMENT_TTL"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`

	BasicAuthUser     string `mapstructure:"BASIC_AUTH_USER"`
	BasicAuthPass     string `mapstructure:"BASIC_AUTH_PASS"`
	CORSAllowedOrigin string `mapstructure:"CORS_ALLOWED_ORIGIN"`
	TrustedProxies    string `mapstructure:"TRUSTED_PROXIES"`
}

var AppConfig *Config

// LoadEnv loads the .env file (if any) and the process environment into AppConfig.
func LoadEnv() {
	cfg, err := Load(".env")
	if err != nil {
		log.Logger.Fatal("Failed to load config", zap.Error(err))
	}
	AppConfig = cfg
}

// Load reads the given env file, overlays the environment and validates the result.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Logger.Warn(".env file not found, using environment only", zap.String("path", path))
	}

	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ADDR, ":8080")
	v.SetDefault(METRICS_ADDR, ":8081")
	v.SetDefault(PPROF_ADDR, ":6060")
	v.SetDefault(IS_DEV, "false")
	v.SetDefault(LOG_LEVEL, "info")
	v.SetDefault(LOG_FORMAT, "console")
	v.SetDefault(LOG_FILE, "")
	v.SetDefault(FETCH_TIMEOUT, 10*time.Second)
	v.SetDefault(USER_AGENT, "PagePulse SEO Bot")
	v.SetDefault(MAX_BODY_BYTES, 5<<20)
	v.SetDefault(RATE_LIMIT_RPS, 1.0)
	v.SetDefault(RATE_LIMIT_BURST, 3)
	v.SetDefault(FREE_AUDITS_PER_DAY, 3)
	v.SetDefault(ENTITLEMENT_TTL, 10*time.Minute)
	v.SetDefault(STRIPE_SECRET_KEY, "")
	v.SetDefault(STRIPE_WEBHOOK_SECRET, "")
	v.SetDefault(BASIC_AUTH_USER, "")
	v.SetDefault(BASIC_AUTH_PASS, "")
	v.SetDefault(CORS_ALLOWED_ORIGIN, "*")
	v.SetDefault(TRUSTED_PROXIES, "")
}

func (c *Config) validate() error {
	if c.FetchTimeout <= 0 {
		return errors.New("FETCH_TIMEOUT must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.FreeAuditsPerDay < 0 {
		return errors.New("FREE_AUDITS_PER_DAY must not be negative")
	}
	if (c.BasicAuthUser == "") != (c.BasicAuthPass == "") {
		return errors.New("BASIC_AUTH_USER and BASIC_AUTH_PASS must be set together")
	}
	if _, err := util.ParseTrustedProxies(c.TrustedProxies); err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	return nil
}

// MetricsAuthEnabled reports whether the metrics server is guarded by basic auth.
func (c *Config) MetricsAuthEnabled() bool {
	return c.BasicAuthUser != "" && c.BasicAuthPass != ""
}

// Proxies returns the peers allowed to set X-Forwarded-For. Load has already
// validated the list.
func (c *Config) Proxies() *util.TrustedProxies {
	proxies, err := util.ParseTrustedProxies(c.TrustedProxies)
	if err != nil {
		return nil
	}
	return proxies
}

// BillingEnabled reports whether a Stripe key is configured.
func (c *Config) BillingEnabled() bool {
	return c.StripeSecretKey != ""
}
