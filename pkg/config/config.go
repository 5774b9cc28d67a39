package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// StorageDriver selects the system of record: "firestore" or "memory".
	StorageDriver              string `mapstructure:"STORAGE_DRIVER"`
	FirebaseProject            string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseServiceAccountJSON string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	FirebaseServiceAccountPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_PATH"`
	StorageBucket              string `mapstructure:"STORAGE_BUCKET"`
	RedisURL                   string `mapstructure:"REDIS_URL"`
	PlansFile                  string `mapstructure:"PLANS_FILE"`

	HouseAccountEmail   string  `mapstructure:"HOUSE_ACCOUNT_EMAIL"`
	WalletMinWithdrawal float64 `mapstructure:"WALLET_MIN_WITHDRAWAL"`
	WalletFeePercent    float64 `mapstructure:"WALLET_FEE_PERCENT"`
	WalletHouseEntry    string  `mapstructure:"WALLET_HOUSE_ENTRY"`

	RevokeDisableDays int           `mapstructure:"REVOKE_DISABLE_DAYS"`
	FreeTrialDays     int           `mapstructure:"FREE_TRIAL_DAYS"`
	ReconcileInterval time.Duration `mapstructure:"RECONCILE_INTERVAL"`

	EmailAPIURL string `mapstructure:"EMAIL_API_URL"`
	EmailAPIKey string `mapstructure:"EMAIL_API_KEY"`
	EmailSender string `mapstructure:"EMAIL_SENDER"`

	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
}

var keys = []string{
	"SERVER_PORT", "ENVIRONMENT", "LOG_LEVEL",
	"STORAGE_DRIVER", "FIREBASE_PROJECT_ID", "FIREBASE_SERVICE_ACCOUNT_JSON", "FIREBASE_SERVICE_ACCOUNT_PATH",
	"STORAGE_BUCKET", "REDIS_URL", "PLANS_FILE",
	"HOUSE_ACCOUNT_EMAIL", "WALLET_MIN_WITHDRAWAL", "WALLET_FEE_PERCENT", "WALLET_HOUSE_ENTRY",
	"REVOKE_DISABLE_DAYS", "FREE_TRIAL_DAYS", "RECONCILE_INTERVAL",
	"EMAIL_API_URL", "EMAIL_API_KEY", "EMAIL_SENDER",
	"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW",
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", "firestore")
	v.SetDefault("WALLET_MIN_WITHDRAWAL", 100)
	v.SetDefault("WALLET_FEE_PERCENT", 1)
	v.SetDefault("WALLET_HOUSE_ENTRY", "debit")
	v.SetDefault("REVOKE_DISABLE_DAYS", 7)
	v.SetDefault("FREE_TRIAL_DAYS", 14)
	v.SetDefault("RECONCILE_INTERVAL", "10m")
	v.SetDefault("EMAIL_SENDER", "no-reply@staynest.app")
	v.SetDefault("RATE_LIMIT_REQUESTS", 60)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "firestore":
		if c.FirebaseProject == "" {
			return errors.New("FIREBASE_PROJECT_ID is required")
		}
	case "memory":
		if c.IsProduction() {
			return errors.New("STORAGE_DRIVER=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.WalletHouseEntry != "debit" && c.WalletHouseEntry != "credit" {
		return fmt.Errorf("WALLET_HOUSE_ENTRY must be debit or credit, got %q", c.WalletHouseEntry)
	}
	if c.WalletFeePercent < 0 || c.WalletFeePercent >= 100 {
		return fmt.Errorf("WALLET_FEE_PERCENT must be in [0, 100), got %v", c.WalletFeePercent)
	}
	if c.ReconcileInterval <= 0 {
		return errors.New("RECONCILE_INTERVAL must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
