package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr        string
	APIURL          string
	APITimeout      time.Duration
	PublicURL       string
	SessionSecret   string
	SessionTTL      time.Duration
	CookieSecure    bool
	GelfAddr        string
	LogLevel        string
	HealthInterval  time.Duration
	StripeSecretKey string
}

const (
	KeyHTTPAddr        = "http_addr"
	KeyAPIURL          = "api_url"
	KeyAPITimeout      = "api_timeout"
	KeyPublicURL       = "public_url"
	KeySessionSecret   = "session_secret"
	KeySessionTTL      = "session_ttl"
	KeyCookieSecure    = "cookie_secure"
	KeyGelfAddr        = "gelf_addr"
	KeyLogLevel        = "log_level"
	KeyHealthInterval  = "health_interval"
	KeyStripeSecretKey = "stripe_secret_key"
)

// New returns a viper instance with defaults and LEXFLOW_ env overrides set.
// Callers may bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyHTTPAddr, ":3000")
	v.SetDefault(KeyAPIURL, "http://localhost:8000")
	v.SetDefault(KeyAPITimeout, 10*time.Second)
	v.SetDefault(KeyPublicURL, "")
	v.SetDefault(KeySessionSecret, "lexflow-dev-secret-change-me")
	v.SetDefault(KeySessionTTL, 24*time.Hour)
	v.SetDefault(KeyCookieSecure, false)
	v.SetDefault(KeyGelfAddr, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyHealthInterval, 10*time.Second)
	v.SetDefault(KeyStripeSecretKey, "")

	v.SetEnvPrefix("LEXFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v and returns the
// validated configuration.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		HTTPAddr:        v.GetString(KeyHTTPAddr),
		APIURL:          strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		APITimeout:      v.GetDuration(KeyAPITimeout),
		PublicURL:       strings.TrimRight(v.GetString(KeyPublicURL), "/"),
		SessionSecret:   v.GetString(KeySessionSecret),
		SessionTTL:      v.GetDuration(KeySessionTTL),
		CookieSecure:    v.GetBool(KeyCookieSecure),
		GelfAddr:        v.GetString(KeyGelfAddr),
		LogLevel:        v.GetString(KeyLogLevel),
		HealthInterval:  v.GetDuration(KeyHealthInterval),
		StripeSecretKey: v.GetString(KeyStripeSecretKey),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url %q must be an absolute http(s) URL", c.APIURL)
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("session_secret must be at least 16 bytes")
	}
	if c.APITimeout <= 0 {
		return errors.New("api_timeout must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	if c.HealthInterval <= 0 {
		return errors.New("health_interval must be positive")
	}
	return nil
}
