package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/antoniodjones/price-and-promo/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Supabase   SupabaseConfig
	Cache      CacheConfig
	Pricing    PricingConfig
	Sentry     SentryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type SupabaseConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	ServiceKey string `mapstructure:"service_key"`
}

// CacheConfig carries the TTLs for each cached entity class. The cache is a
// performance optimization only; disabling it must never change results.
type CacheConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RuleSetTTL        time.Duration `mapstructure:"rule_set_ttl"`
	TierAssignmentTTL time.Duration `mapstructure:"tier_assignment_ttl"`
	ProductTTL        time.Duration `mapstructure:"product_ttl"`
	CalculationTTL    time.Duration `mapstructure:"calculation_ttl"`
}

// PricingConfig holds pricing policy knobs.
//
// CapAtSubtotal clamps every evaluated discount to the line subtotal so a
// discount can never drive the final price negative. The reference behavior
// is uncapped, so this defaults to false until product confirms intent.
type PricingConfig struct {
	CapAtSubtotal bool `mapstructure:"cap_at_subtotal"`
}

type SentryConfig struct {
	DSN     string  `mapstructure:"dsn"`
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricepromo")

	v.SetEnvPrefix("PRICEPROMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.rule_set_ttl", 5*time.Minute)
	v.SetDefault("cache.tier_assignment_ttl", 10*time.Minute)
	v.SetDefault("cache.product_ttl", 15*time.Minute)
	v.SetDefault("cache.calculation_ttl", 3*time.Minute)
	v.SetDefault("pricing.cap_at_subtotal", false)
	v.SetDefault("sentry.enabled", false)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests, so non-web entrypoints don't need a config file.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Cache: CacheConfig{
			Enabled:           true,
			RuleSetTTL:        5 * time.Minute,
			TierAssignmentTTL: 10 * time.Minute,
			ProductTTL:        15 * time.Minute,
			CalculationTTL:    3 * time.Minute,
		},
	}
}
