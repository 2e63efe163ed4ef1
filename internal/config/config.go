// Package config resolves runtime settings: defaults, then an optional YAML
// or JSON file, then ECOVOYAGE_* environment variables. Command-line flags
// are applied on top by the CLI.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/ecovoyage/internal/logging"
	"github.com/aretw0/ecovoyage/pkg/pricing"
	"github.com/aretw0/ecovoyage/pkg/view"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ECOVOYAGE_"

// Config is the resolved application configuration.
type Config struct {
	// CatalogPath points to a YAML or JSON catalog. Empty uses the built-in one.
	CatalogPath string         `yaml:"catalog" json:"catalog"`
	TaxRate     float64        `yaml:"tax_rate" json:"tax_rate"`
	Currency    view.Formatter `yaml:"currency" json:"currency"`
	Log         LogConfig      `yaml:"log" json:"log"`
	HTTP        HTTPConfig     `yaml:"http" json:"http"`
	Redis       RedisConfig    `yaml:"redis" json:"redis"`
	Security    SecurityConfig `yaml:"security" json:"security"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type HTTPConfig struct {
	Addr      string `yaml:"addr" json:"addr"`
	StaticDir string `yaml:"static_dir" json:"static_dir"`
}

// RedisConfig enables the Redis session container when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// SecurityConfig enables encryption of contact details at rest.
// Keys are base64 encoded and decode to 32 bytes.
type SecurityConfig struct {
	EncryptionKey string   `yaml:"encryption_key" json:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys" json:"fallback_keys"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TaxRate:  pricing.DefaultTaxRate,
		Currency: view.DefaultFormatter(),
		Log:      LogConfig{Level: "info", Format: string(logging.FormatText)},
		HTTP:     HTTPConfig{Addr: ":8080"},
		Redis:    RedisConfig{Prefix: "ecovoyage:trip:", TTL: 30 * time.Minute},
	}
}

// Load resolves the configuration. An empty path skips the file layer;
// a named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

// applyEnv overlays ECOVOYAGE_* variables.
func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	float := func(name string, dst *float64) {
		if v, ok := lookup(EnvPrefix + name); ok {
			f, err := cast.ToFloat64E(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}

	str("CATALOG", &c.CatalogPath)
	float("TAX_RATE", &c.TaxRate)
	float("EXCHANGE_RATE", &c.Currency.Rate)
	str("CURRENCY_SYMBOL", &c.Currency.Symbol)
	str("SECONDARY_SYMBOL", &c.Currency.SecondarySymbol)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("HTTP_ADDR", &c.HTTP.Addr)
	str("STATIC_DIR", &c.HTTP.StaticDir)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("REDIS_PREFIX", &c.Redis.Prefix)
	str("ENCRYPTION_KEY", &c.Security.EncryptionKey)

	if v, ok := lookup(EnvPrefix + "FALLBACK_KEYS"); ok {
		c.Security.FallbackKeys = cast.ToStringSlice(strings.ReplaceAll(v, ",", " "))
	}

	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok {
		db, err := cast.ToIntE(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREDIS_DB: %w", EnvPrefix, err))
		} else {
			c.Redis.DB = db
		}
	}
	if v, ok := lookup(EnvPrefix + "SESSION_TTL"); ok {
		ttl, err := cast.ToDurationE(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSESSION_TTL: %w", EnvPrefix, err))
		} else {
			c.Redis.TTL = ttl
		}
	}
	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.TaxRate < 0 || c.TaxRate >= 1 {
		errs = append(errs, fmt.Errorf("tax_rate must be in [0, 1), got %v", c.TaxRate))
	}
	if c.Currency.Rate < 0 {
		errs = append(errs, fmt.Errorf("currency.rate must not be negative, got %v", c.Currency.Rate))
	}
	if c.Currency.Symbol == "" {
		errs = append(errs, errors.New("currency.symbol is required"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, fmt.Errorf("redis.ttl must not be negative, got %s", c.Redis.TTL))
	}
	if _, _, err := c.EncryptionKeys(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RedisEnabled reports whether sessions should live in Redis.
func (c Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// EncryptionEnabled reports whether contact details are encrypted at rest.
func (c Config) EncryptionEnabled() bool {
	return c.Security.EncryptionKey != ""
}

// EncryptionKeys decodes the configured keys. Both are nil when encryption
// is disabled.
func (c Config) EncryptionKeys() (active []byte, fallback [][]byte, err error) {
	if !c.EncryptionEnabled() {
		return nil, nil, nil
	}
	if active, err = decodeKey("security.encryption_key", c.Security.EncryptionKey); err != nil {
		return nil, nil, err
	}
	for i, k := range c.Security.FallbackKeys {
		key, err := decodeKey(fmt.Sprintf("security.fallback_keys[%d]", i), k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(field, encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", field, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s must decode to 32 bytes, got %d", field, len(key))
	}
	return key, nil
}
