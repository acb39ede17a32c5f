package node

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. L2SWITCH_SWITCH_PORTS
const EnvPrefix = "L2SWITCH"

// Config represents the configuration for a simulation node
type Config struct {
	// Switch holds the forwarding engine parameters
	Switch SwitchConfig `mapstructure:"switch"`

	// Log determines logging verbosity and outputs
	Log LogConfig `mapstructure:"log"`
}

// SwitchConfig holds the parameters a switch is constructed with
type SwitchConfig struct {
	// Ports is the number of switch ports, numbered from 1
	Ports int `mapstructure:"ports"`

	// AgingTimeout is the MAC aging timeout in seconds; 0 disables aging
	AgingTimeout int `mapstructure:"aging_timeout"`
}

// LogConfig configures the node logger
type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig configures an optional rotating log file
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		// defaults are static and always decode
		panic(err)
	}
	return cfg
}

// LoadConfig loads configuration from the specified file.
// An empty path yields the defaults merged with environment overrides.
func LoadConfig(filePath string) (*Config, error) {
	v := newViper()

	if filePath != "" {
		v.SetConfigFile(filePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("switch.ports", 8)
	v.SetDefault("switch.aging_timeout", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "l2switch.log")
	v.SetDefault("log.file.max_size_mb", 10)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 7)
	v.SetDefault("log.file.compress", false)
}

// Validate checks the configuration for values the switch cannot run with
func (c *Config) Validate() error {
	if c.Switch.Ports <= 0 {
		return fmt.Errorf("switch.ports must be positive, got %d", c.Switch.Ports)
	}
	if c.Switch.AgingTimeout < 0 {
		return fmt.Errorf("switch.aging_timeout must not be negative, got %d", c.Switch.AgingTimeout)
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}

	if c.Log.File.Enabled && c.Log.File.Path == "" {
		return errors.New("log.file.path is required when log.file.enabled=true")
	}

	return nil
}
