// Package config resolves runtime settings from flags, environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	FlagConfigFile          = "config"
	FlagDatabaseURL         = "database-url"
	FlagCurrencySymbol      = "currency"
	FlagOpeningPot          = "prize-pot"
	FlagSeed                = "seed"
	FlagAllowFractionalCash = "fractional-cash"
	FlagClearScreen         = "clear-screen"
	FlagScriptPath          = "script"
	FlagLogLevel            = "log-level"
	FlagHistoryLimit        = "limit"

	configKeyDatabaseURL         = "database_url"
	configKeyCurrencySymbol      = "currency"
	configKeyOpeningPot          = "prize_pot"
	configKeySeed                = "seed"
	configKeyAllowFractionalCash = "fractional_cash"
	configKeyClearScreen         = "clear_screen"
	configKeyScriptPath          = "script"
	configKeyLogLevel            = "log_level"
	configKeyHistoryLimit        = "history_limit"

	envPrefix = "FRUITMACHINE"

	defaultCurrencySymbol = "£"
	defaultOpeningPot     = "20"
	defaultLogLevel       = "warn"
	defaultHistoryLimit   = 20
)

// ErrInvalidConfig marks a configuration that cannot start a session.
var ErrInvalidConfig = errors.New("invalid config")

// Config aggregates runtime settings for the command line.
type Config struct {
	DatabaseURL         string
	CurrencySymbol      string
	OpeningPot          decimal.Decimal
	Seed                uint64
	AllowFractionalCash bool
	ClearScreen         bool
	ScriptPath          string
	LogLevel            string
	HistoryLimit        int
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		CurrencySymbol: defaultCurrencySymbol,
		OpeningPot:     decimal.RequireFromString(defaultOpeningPot),
		LogLevel:       defaultLogLevel,
		HistoryLimit:   defaultHistoryLimit,
	}
}

// Validate fills defaults and ensures the configuration contains sane values.
func (cfg *Config) Validate() error {
	cfg.CurrencySymbol = defaultIfEmpty(cfg.CurrencySymbol, defaultCurrencySymbol)
	cfg.LogLevel = strings.ToLower(defaultIfEmpty(cfg.LogLevel, defaultLogLevel))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.ScriptPath = strings.TrimSpace(cfg.ScriptPath)
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.OpeningPot.IsNegative() {
		return fmt.Errorf("%w: prize pot must not be negative", ErrInvalidConfig)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, cfg.LogLevel)
	}
	return nil
}

// JournalEnabled reports whether rounds should be written to a database.
func (cfg Config) JournalEnabled() bool {
	return cfg.DatabaseURL != ""
}

// RegisterFlags adds every configuration flag to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	defaults := Default()
	flags.String(FlagConfigFile, "", "config file (yaml, json or toml)")
	flags.String(FlagDatabaseURL, "", "journal database (postgres:// URL, sqlite:// URL or sqlite path); empty disables the journal")
	flags.String(FlagCurrencySymbol, defaults.CurrencySymbol, "currency symbol shown next to amounts")
	flags.String(FlagOpeningPot, defaults.OpeningPot.String(), "opening prize pot")
	flags.Uint64(FlagSeed, 0, "random seed; 0 draws a fresh seed")
	flags.Bool(FlagAllowFractionalCash, false, "keep fractional starting cash instead of truncating to whole units")
	flags.Bool(FlagClearScreen, false, "clear the terminal before each round")
	flags.String(FlagScriptPath, "", "yaml file of scripted draws to replay instead of random draws")
	flags.String(FlagLogLevel, defaults.LogLevel, "log level (debug, info, warn, error)")
	flags.Int(FlagHistoryLimit, defaults.HistoryLimit, "maximum number of history rows")
}

// Load resolves configuration with precedence flag > environment > config file > default.
func Load(flags *pflag.FlagSet) (Config, error) {
	store := viper.New()
	store.SetEnvPrefix(envPrefix)
	store.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	store.AutomaticEnv()

	bindings := map[string]string{
		configKeyDatabaseURL:         FlagDatabaseURL,
		configKeyCurrencySymbol:      FlagCurrencySymbol,
		configKeyOpeningPot:          FlagOpeningPot,
		configKeySeed:                FlagSeed,
		configKeyAllowFractionalCash: FlagAllowFractionalCash,
		configKeyClearScreen:         FlagClearScreen,
		configKeyScriptPath:          FlagScriptPath,
		configKeyLogLevel:            FlagLogLevel,
		configKeyHistoryLimit:        FlagHistoryLimit,
	}
	for key, flagName := range bindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := store.BindPFlag(key, flag); err != nil {
			return Config{}, err
		}
	}

	if configFile, err := flags.GetString(FlagConfigFile); err == nil && strings.TrimSpace(configFile) != "" {
		store.SetConfigFile(configFile)
		if err := store.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	openingPot, err := decimal.NewFromString(defaultIfEmpty(store.GetString(configKeyOpeningPot), defaultOpeningPot))
	if err != nil {
		return Config{}, fmt.Errorf("%w: prize pot: %w", ErrInvalidConfig, err)
	}
	cfg := Config{
		DatabaseURL:         store.GetString(configKeyDatabaseURL),
		CurrencySymbol:      store.GetString(configKeyCurrencySymbol),
		OpeningPot:          openingPot,
		Seed:                store.GetUint64(configKeySeed),
		AllowFractionalCash: store.GetBool(configKeyAllowFractionalCash),
		ClearScreen:         store.GetBool(configKeyClearScreen),
		ScriptPath:          store.GetString(configKeyScriptPath),
		LogLevel:            store.GetString(configKeyLogLevel),
		HistoryLimit:        store.GetInt(configKeyHistoryLimit),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultIfEmpty(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
