// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package folioconfig provides configuration parsing and validation for folioctl.
//
// The configuration file is folioctl.yaml in the folioctl directory (--dir).
// Provider credentials come from the environment, or from a .env file in the
// same directory.
package folioconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/bufdev/folioctl/internal/folio/foliocomposition"
	"github.com/bufdev/folioctl/internal/standard/xos"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the well-known config file name within the folioctl directory.
	ConfigFileName = "folioctl.yaml"
	// EnvFileName is the optional credentials file within the folioctl directory.
	EnvFileName = ".env"
	// YahooCookieEnvVar is the environment variable holding the Yahoo session cookie.
	YahooCookieEnvVar = "FOLIOCTL_YAHOO_COOKIE"
	// YahooCrumbEnvVar is the environment variable holding the Yahoo session crumb.
	YahooCrumbEnvVar = "FOLIOCTL_YAHOO_CRUMB"

	defaultHomeCurrency              = "CHF"
	defaultProviderTimeout           = 10 * time.Second
	defaultProviderConcurrency       = 8
	defaultProviderRequestsPerSecond = 5
)

// configTemplate is the default configuration file template with comments.
// yaml.v3 does not preserve comments, so we hardcode the template string.
const configTemplate = `# The configuration file version.
#
# Required. The only current valid version is v1.
version: v1
# The currency all values are converted to.
#
# Optional. Defaults to CHF.
home_currency: CHF
# Market data provider configuration.
#
# Optional. The Yahoo Finance session cookie and crumb are read from the
# FOLIOCTL_YAHOO_COOKIE and FOLIOCTL_YAHOO_CRUMB environment variables,
# or from a .env file next to this file.
provider:
  # The timeout of a single provider call.
  timeout: 10s
  # The number of positions enriched at once.
  concurrency: 8
  # The maximum number of provider requests per second.
  requests_per_second: 5
# Currency conversion configuration.
#
# Optional. Static rates are built in.
fx:
  # Refresh rates from frankfurter.dev before converting.
  refresh: false
  # Rates overriding the built-in ones, as the value of one unit in the home currency.
  # rates:
  #   USD: 0.88
# A hand-maintained HJSON file of fund compositions, relative to this file.
#
# Optional. Used before the provider for look-through allocation.
# compositions_file: compositions.hjson
# Symbol overrides.
#
# Optional. Non-empty fields take precedence over provider data.
# symbols:
#   - name: NESN
#     resolved: NESN.SW
#     category: Equities
#     sector: Consumer Defensive
#     country: Switzerland
#     domicile: CH
`

// ExternalConfig is the YAML-serializable configuration file structure.
type ExternalConfig struct {
	// Version is the configuration file version (must be "v1").
	Version string `yaml:"version"`
	// HomeCurrency is the ISO 4217 code all values are converted to.
	HomeCurrency string `yaml:"home_currency"`
	// Provider holds the market data provider configuration.
	Provider ExternalProviderConfig `yaml:"provider"`
	// FX holds the currency conversion configuration.
	FX ExternalFXConfig `yaml:"fx"`
	// CompositionsFile is the path of the fund composition file.
	CompositionsFile string `yaml:"compositions_file"`
	// Symbols is the optional list of symbol overrides.
	Symbols []ExternalSymbolConfig `yaml:"symbols"`
}

// ExternalProviderConfig holds market data provider configuration.
type ExternalProviderConfig struct {
	// Timeout is a duration string such as "10s".
	Timeout string `yaml:"timeout"`
	// Concurrency is the number of positions enriched at once.
	Concurrency int `yaml:"concurrency"`
	// RequestsPerSecond is the provider rate limit.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// ExternalFXConfig holds currency conversion configuration.
type ExternalFXConfig struct {
	// Refresh enables refreshing rates from frankfurter.dev.
	Refresh bool `yaml:"refresh"`
	// Rates are the value of one unit of each currency in the home currency.
	Rates map[string]float64 `yaml:"rates"`
}

// ExternalSymbolConfig holds the overrides of a symbol.
type ExternalSymbolConfig struct {
	// Name is the statement symbol.
	Name string `yaml:"name"`
	// Resolved is the provider symbol.
	Resolved string `yaml:"resolved"`
	// Category is the asset category (e.g., "ETF").
	Category string `yaml:"category"`
	// Sector is the sector classification.
	Sector string `yaml:"sector"`
	// Country is the country classification.
	Country string `yaml:"country"`
	// Domicile is the ISO country code of the domicile.
	Domicile string `yaml:"domicile"`
}

// Config is the validated runtime configuration.
type Config struct {
	// DirPath is the folioctl directory.
	DirPath string
	// HomeCurrency is the ISO 4217 code all values are converted to.
	HomeCurrency string
	// ProviderTimeout is the timeout of a single provider call.
	ProviderTimeout time.Duration
	// ProviderConcurrency is the number of positions enriched at once.
	ProviderConcurrency int
	// ProviderRequestsPerSecond is the provider rate limit.
	ProviderRequestsPerSecond float64
	// FXRefresh is true if rates should be refreshed from frankfurter.dev.
	FXRefresh bool
	// FXRates are the configured rates in the home currency.
	FXRates map[string]float64
	// CompositionsFilePath is the path of the fund composition file, or empty.
	CompositionsFilePath string
	// SymbolConfigs maps upper-cased statement symbols to their overrides.
	SymbolConfigs map[string]SymbolConfig
	// YahooCookie is the Yahoo session cookie, or empty.
	YahooCookie string
	// YahooCrumb is the Yahoo session crumb, or empty.
	YahooCrumb string
}

// SymbolConfig holds the overrides of a symbol.
type SymbolConfig struct {
	Resolved string
	Category string
	Sector   string
	Country  string
	Domicile string
}

// NewConfig validates an ExternalConfig and returns a runtime Config.
//
// Relative paths are resolved against dirPath.
func NewConfig(dirPath string, externalConfig ExternalConfig) (*Config, error) {
	if externalConfig.Version != "v1" {
		return nil, fmt.Errorf("unsupported config version %q, must be v1", externalConfig.Version)
	}
	config := &Config{
		DirPath:                   dirPath,
		HomeCurrency:              defaultHomeCurrency,
		ProviderTimeout:           defaultProviderTimeout,
		ProviderConcurrency:       defaultProviderConcurrency,
		ProviderRequestsPerSecond: defaultProviderRequestsPerSecond,
		FXRefresh:                 externalConfig.FX.Refresh,
		FXRates:                   make(map[string]float64, len(externalConfig.FX.Rates)),
		SymbolConfigs:             make(map[string]SymbolConfig, len(externalConfig.Symbols)),
	}
	if externalConfig.HomeCurrency != "" {
		homeCurrency, err := validateCurrency(externalConfig.HomeCurrency)
		if err != nil {
			return nil, fmt.Errorf("home_currency: %w", err)
		}
		config.HomeCurrency = homeCurrency
	}
	if externalConfig.Provider.Timeout != "" {
		timeout, err := time.ParseDuration(externalConfig.Provider.Timeout)
		if err != nil {
			return nil, fmt.Errorf("provider.timeout: %w", err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("provider.timeout must be positive: %s", externalConfig.Provider.Timeout)
		}
		config.ProviderTimeout = timeout
	}
	if externalConfig.Provider.Concurrency < 0 {
		return nil, fmt.Errorf("provider.concurrency must be positive: %d", externalConfig.Provider.Concurrency)
	}
	if externalConfig.Provider.Concurrency > 0 {
		config.ProviderConcurrency = externalConfig.Provider.Concurrency
	}
	if externalConfig.Provider.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("provider.requests_per_second must be positive: %v", externalConfig.Provider.RequestsPerSecond)
	}
	if externalConfig.Provider.RequestsPerSecond > 0 {
		config.ProviderRequestsPerSecond = externalConfig.Provider.RequestsPerSecond
	}
	for currency, rate := range externalConfig.FX.Rates {
		code, err := validateCurrency(currency)
		if err != nil {
			return nil, fmt.Errorf("fx.rates: %w", err)
		}
		if rate <= 0 {
			return nil, fmt.Errorf("fx.rates.%s must be positive: %v", currency, rate)
		}
		config.FXRates[code] = rate
	}
	if externalConfig.CompositionsFile != "" {
		compositionsFilePath, err := xos.ResolvePath(dirPath, externalConfig.CompositionsFile)
		if err != nil {
			return nil, fmt.Errorf("compositions_file: %w", err)
		}
		config.CompositionsFilePath = compositionsFilePath
	}
	// Build symbol configs map, checking for duplicates.
	for _, s := range externalConfig.Symbols {
		name := strings.ToUpper(strings.TrimSpace(s.Name))
		if name == "" {
			return nil, errors.New("symbol name is required")
		}
		if _, ok := config.SymbolConfigs[name]; ok {
			return nil, fmt.Errorf("duplicate symbol name %q", s.Name)
		}
		domicile := strings.ToUpper(strings.TrimSpace(s.Domicile))
		if domicile != "" && len(domicile) != 2 {
			return nil, fmt.Errorf("symbol %s: domicile must be a two-letter country code: %q", s.Name, s.Domicile)
		}
		config.SymbolConfigs[name] = SymbolConfig{
			Resolved: strings.ToUpper(strings.TrimSpace(s.Resolved)),
			Category: s.Category,
			Sector:   s.Sector,
			Country:  s.Country,
			Domicile: domicile,
		}
	}
	return config, nil
}

// ConfigFilePath returns the path to the config file within the folioctl directory.
func ConfigFilePath(dirPath string) string {
	return filepath.Join(dirPath, ConfigFileName)
}

// EnvFilePath returns the path to the .env file within the folioctl directory.
func EnvFilePath(dirPath string) string {
	return filepath.Join(dirPath, EnvFileName)
}

// ReadConfig reads the configuration from the folioctl directory.
//
// A missing configuration file yields the defaults. Credentials are read with
// getenv first, then from the .env file.
func ReadConfig(dirPath string, getenv func(string) string) (*Config, error) {
	filePath := ConfigFilePath(dirPath)
	var externalConfig ExternalConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		externalConfig.Version = "v1"
	}
	if err := unmarshalYAMLStrict(data, &externalConfig); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
	}
	config, err := NewConfig(dirPath, externalConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	envVars, err := readEnvFile(EnvFilePath(dirPath))
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if getenv != nil {
			if value := getenv(key); value != "" {
				return value
			}
		}
		return envVars[key]
	}
	config.YahooCookie = lookup(YahooCookieEnvVar)
	config.YahooCrumb = lookup(YahooCrumbEnvVar)
	return config, nil
}

// InitConfig creates a new configuration file with a documented template.
// Creates the directory if it does not exist.
// Returns the path to the created file, or an error if the file already exists.
func InitConfig(dirPath string) (string, error) {
	filePath := ConfigFilePath(dirPath)
	if _, err := os.Stat(filePath); err == nil {
		return "", fmt.Errorf("configuration file already exists: %s", filePath)
	}
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(configTemplate), 0o644); err != nil {
		return "", err
	}
	return filePath, nil
}

// ValidateConfigFile reads and validates the configuration file at the path.
//
// Unlike ReadConfig, the file must exist. A configured compositions file must exist and be valid.
func ValidateConfigFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var externalConfig ExternalConfig
	if err := unmarshalYAMLStrict(data, &externalConfig); err != nil {
		return fmt.Errorf("parsing config file %s: %w", filePath, err)
	}
	config, err := NewConfig(filepath.Dir(filePath), externalConfig)
	if err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	if config.CompositionsFilePath != "" {
		if _, err := foliocomposition.ReadFile(config.CompositionsFilePath); err != nil {
			return fmt.Errorf("compositions_file: %w", err)
		}
	}
	return nil
}

// *** PRIVATE ***

// unmarshalYAMLStrict unmarshals the data as YAML with strict field checking.
// If the data length is 0, this is a no-op.
func unmarshalYAMLStrict(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	yamlDecoder := yaml.NewDecoder(bytes.NewReader(data))
	// Reject unknown fields.
	yamlDecoder.KnownFields(true)
	if err := yamlDecoder.Decode(v); err != nil {
		return fmt.Errorf("could not unmarshal as YAML: %w", err)
	}
	return nil
}

// readEnvFile reads the .env file, returning an empty map if it does not exist.
func readEnvFile(filePath string) (map[string]string, error) {
	envVars, err := godotenv.Read(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	return envVars, nil
}

func validateCurrency(currency string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if money.GetCurrency(code) == nil {
		return "", fmt.Errorf("unknown currency %q", currency)
	}
	return code, nil
}
