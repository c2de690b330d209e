package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	Storage     string `env:"STOREFRONT_STORAGE" envDefault:"sqlite"`
	SQLitePath  string `env:"STOREFRONT_SQLITE_PATH" envDefault:"storefront.db"`
	PostgresURL string `env:"STOREFRONT_POSTGRES_URL"`

	Currency    string `env:"STOREFRONT_CURRENCY" envDefault:"PKR"`
	PricePrefix string `env:"STOREFRONT_PRICE_PREFIX" envDefault:"Rs. "`
	Locale      string `env:"STOREFRONT_LOCALE" envDefault:"en"`

	SuccessTTL time.Duration `env:"STOREFRONT_NOTIFY_SUCCESS_TTL" envDefault:"3s"`
	ErrorTTL   time.Duration `env:"STOREFRONT_NOTIFY_ERROR_TTL" envDefault:"4s"`

	LogLevel string `env:"STOREFRONT_LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from environment variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("postgres url is required for storage %q", c.Storage)
		}
	default:
		return fmt.Errorf("storage %q is not supported", c.Storage)
	}

	if _, err := c.CurrencyUnit(); err != nil {
		return err
	}
	if _, err := c.LanguageTag(); err != nil {
		return err
	}

	return nil
}

func (c Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s] is not valid: %w", c.Currency, err)
	}
	return unit, nil
}

func (c Config) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("locale[%s] is not valid: %w", c.Locale, err)
	}
	return tag, nil
}
