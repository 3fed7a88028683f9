// Package config provides Viper-based configuration loading for lifesim.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Driver is one of "postgres", "sqlite" or "memory".
	Driver string `mapstructure:"driver"`
	// Path is the save file used by the sqlite driver.
	Path string `mapstructure:"path"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a comma-separated list of file paths, "stderr" or "stdout".
	// Interactive play logs to a file so the log does not interleave with
	// the fight narrative.
	Output string `mapstructure:"output"`
}

// CombatConfig holds the fight constants.
type CombatConfig struct {
	BaseCooldown      int `mapstructure:"base_cooldown"`
	BaseDamage        int `mapstructure:"base_damage"`
	CooldownIncrement int `mapstructure:"cooldown_increment"`
	// MaxRounds aborts a fight that runs longer. 0 disables the cap.
	MaxRounds int `mapstructure:"max_rounds"`
	// TacticsScript is an optional Lua file defining choose_attack and
	// choose_block for NPCs.
	TacticsScript string `mapstructure:"tactics_script"`
}

// ClockConfig holds world clock settings.
type ClockConfig struct {
	DaysPerTick int `mapstructure:"days_per_tick"`
}

// ContentConfig points at the YAML game content.
type ContentConfig struct {
	// WorldDir holds one YAML file per country.
	WorldDir string `mapstructure:"world_dir"`
	// RulesFile overrides the built-in death-cause and medical-care tables.
	RulesFile string `mapstructure:"rules_file"`
}

// Config is the top-level application configuration.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Clock    ClockConfig    `mapstructure:"clock"`
	Content  ContentConfig  `mapstructure:"content"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when the postgres driver is selected.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Driver == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Clock.DaysPerTick < 1 {
		errs = append(errs, fmt.Sprintf("clock.days_per_tick must be >= 1, got %d", c.Clock.DaysPerTick))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	switch s.Driver {
	case "postgres", "memory":
		return nil
	case "sqlite":
		if s.Path == "" {
			return errors.New("storage.path must not be empty for the sqlite driver")
		}
		return nil
	default:
		return fmt.Errorf("storage.driver must be one of [postgres, sqlite, memory], got %q", s.Driver)
	}
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.BaseCooldown < 1 {
		errs = append(errs, fmt.Sprintf("combat.base_cooldown must be >= 1, got %d", c.BaseCooldown))
	}
	if c.BaseDamage < 0 {
		errs = append(errs, fmt.Sprintf("combat.base_damage must be >= 0, got %d", c.BaseDamage))
	}
	if c.CooldownIncrement < 1 {
		errs = append(errs, fmt.Sprintf("combat.cooldown_increment must be >= 1, got %d", c.CooldownIncrement))
	}
	if c.MaxRounds < 0 {
		errs = append(errs, fmt.Sprintf("combat.max_rounds must be >= 0, got %d", c.MaxRounds))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with LIFESIM_ prefix
	v.SetEnvPrefix("LIFESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "lifesim.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "lifesim")
	v.SetDefault("database.password", "lifesim")
	v.SetDefault("database.name", "lifesim")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("combat.base_cooldown", 20)
	v.SetDefault("combat.base_damage", 10)
	v.SetDefault("combat.cooldown_increment", 200)
	v.SetDefault("combat.max_rounds", 1000)
	v.SetDefault("combat.tactics_script", "")

	v.SetDefault("clock.days_per_tick", 30)

	v.SetDefault("content.world_dir", "content/world")
	v.SetDefault("content.rules_file", "")
}
