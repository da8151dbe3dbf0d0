package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rewired-gh/skyhook-sim/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Simulation   models.ExposureParams `mapstructure:"simulation"`
	Reachability ReachabilityConfig    `mapstructure:"reachability"`
	Universe     UniverseConfig        `mapstructure:"universe"`
	Storage      StorageConfig         `mapstructure:"storage"`
	Server       ServerConfig          `mapstructure:"server"`
	Telegram     TelegramConfig        `mapstructure:"telegram"`
	Logging      LoggingConfig         `mapstructure:"logging"`
}

// ReachabilityConfig holds Monte-Carlo reachability settings
type ReachabilityConfig struct {
	Trials   int `mapstructure:"trials"`
	MaxJumps int `mapstructure:"max_jumps"`
	Workers  int `mapstructure:"workers"`
}

// UniverseConfig describes where the jump graph comes from
type UniverseConfig struct {
	SystemsFile     string `mapstructure:"systems_file"`
	ConnectionsFile string `mapstructure:"connections_file"`
	SecurityStatus  string `mapstructure:"security_status"`
	JumpDelimiter   string `mapstructure:"jump_delimiter"`
}

// StorageConfig holds the SQLite universe store configuration
type StorageConfig struct {
	DBPath  string `mapstructure:"db_path"`
	Enabled bool   `mapstructure:"enabled"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("SKYHOOK_SIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	sim := models.DefaultExposureParams()
	reach := models.DefaultReachParams()

	// Simulation defaults
	v.SetDefault("simulation.entities", sim.Entities)
	v.SetDefault("simulation.center_anchor", sim.CenterAnchor)
	v.SetDefault("simulation.stddev_hours", sim.StddevHours)
	v.SetDefault("simulation.window_hours", sim.WindowHours)
	v.SetDefault("simulation.cycle_hours", sim.CycleHours)
	v.SetDefault("simulation.phase_step_hours", 0)
	v.SetDefault("simulation.cycle_randomness", 0.0)
	v.SetDefault("simulation.center_spread", 0.0)
	v.SetDefault("simulation.horizon_days", sim.HorizonDays)
	v.SetDefault("simulation.offset_catalog", models.DefaultOffsetCatalog)
	v.SetDefault("simulation.seed", 0)

	// Reachability defaults
	v.SetDefault("reachability.trials", reach.Trials)
	v.SetDefault("reachability.max_jumps", reach.MaxJumps)
	v.SetDefault("reachability.workers", reach.Workers)

	// Universe defaults
	v.SetDefault("universe.systems_file", "./data/systems.json")
	v.SetDefault("universe.connections_file", "./data/connections.json")
	v.SetDefault("universe.security_status", "0.0")
	v.SetDefault("universe.jump_delimiter", ":")

	// Storage defaults
	v.SetDefault("storage.db_path", "./data/universe.db")
	v.SetDefault("storage.enabled", false)

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate simulation config
	if c.Simulation.Entities < 1 {
		return fmt.Errorf("simulation.entities must be at least 1")
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	// Validate reachability config
	if c.Reachability.Trials < 1 {
		return fmt.Errorf("reachability.trials must be at least 1")
	}
	if c.Reachability.MaxJumps < 0 {
		return fmt.Errorf("reachability.max_jumps must not be negative")
	}
	if c.Reachability.Workers < 1 {
		return fmt.Errorf("reachability.workers must be at least 1")
	}

	// Validate universe config
	if c.Universe.SecurityStatus == "" {
		return fmt.Errorf("universe.security_status is required")
	}
	if c.Universe.JumpDelimiter == "" {
		return fmt.Errorf("universe.jump_delimiter is required")
	}

	// Validate storage config
	if c.Storage.Enabled && c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required when storage is enabled")
	}

	// Validate server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// ReachParams returns reachability parameters for a bucket of count systems
func (c *Config) ReachParams(count int) models.ReachParams {
	return models.ReachParams{
		Count:    count,
		Trials:   c.Reachability.Trials,
		MaxJumps: c.Reachability.MaxJumps,
		Workers:  c.Reachability.Workers,
		Seed:     c.Simulation.Seed,
	}
}
