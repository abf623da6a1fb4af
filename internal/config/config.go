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

type ServerConfig struct {
	Port        int    `yaml:"port"`
	BackendURL  string `yaml:"backend_url"`  // public base URL of this API, used in gateway callbacks
	FrontendURL string `yaml:"frontend_url"` // where browsers land after a payment resolves
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type SSLCommerzConfig struct {
	StoreID       string `yaml:"store_id"`
	StorePassword string `yaml:"store_password"`
	SessionAPI    string `yaml:"session_api"`
	ValidationAPI string `yaml:"validation_api"`
	Sandbox       bool   `yaml:"sandbox"`
}

type PaymentConfig struct {
	SSLCommerz SSLCommerzConfig `yaml:"sslcommerz"`
}

type SchedulerConfig struct {
	ExpirySweepInterval time.Duration `yaml:"expiry_sweep_interval"`
	ReconcileInterval   time.Duration `yaml:"reconcile_interval"`
	ReconcileStaleAfter time.Duration `yaml:"reconcile_stale_after"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Payment   PaymentConfig   `yaml:"payment"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

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
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 10
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = 10 * time.Minute
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Scheduler.ExpirySweepInterval <= 0 {
		c.Scheduler.ExpirySweepInterval = time.Hour
	}
	if c.Scheduler.ReconcileInterval <= 0 {
		c.Scheduler.ReconcileInterval = 5 * time.Minute
	}
	if c.Scheduler.ReconcileStaleAfter <= 0 {
		c.Scheduler.ReconcileStaleAfter = 10 * time.Minute
	}
	if c.Payment.SSLCommerz.SessionAPI == "" {
		base := "https://securepay.sslcommerz.com"
		if c.Payment.SSLCommerz.Sandbox {
			base = "https://sandbox.sslcommerz.com"
		}
		c.Payment.SSLCommerz.SessionAPI = base + "/gwprocess/v4/api.php"
	}
	if c.Payment.SSLCommerz.ValidationAPI == "" {
		base := "https://securepay.sslcommerz.com"
		if c.Payment.SSLCommerz.Sandbox {
			base = "https://sandbox.sslcommerz.com"
		}
		c.Payment.SSLCommerz.ValidationAPI = base + "/validator/api/validationserverAPI.php"
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("config: database.url is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwt_secret is required")
	}
	if c.Server.BackendURL == "" || c.Server.FrontendURL == "" {
		return errors.New("config: server.backend_url and server.frontend_url are required")
	}
	// Developer mode runs against the noop gateway, so store credentials
	// are only mandatory for a real deployment.
	if !c.Runtime.Dev && (c.Payment.SSLCommerz.StoreID == "" || c.Payment.SSLCommerz.StorePassword == "") {
		return errors.New("config: payment.sslcommerz store credentials are required")
	}
	return nil
}
