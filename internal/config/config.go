package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// OutputFormat selects how listings are printed.
type OutputFormat string

const (
	OutputPlain OutputFormat = "plain"
	OutputTable OutputFormat = "table"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	LogLevel string         `mapstructure:"log_level"`
	LogFile  string         `mapstructure:"log_file"`
	Output   OutputConfig   `mapstructure:"output"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	UsersPath    string `mapstructure:"users_path"`    // SQLite file holding the users table
	ListingsPath string `mapstructure:"listings_path"` // SQLite file holding the listings table
}

// OutputConfig controls listing rendering.
type OutputConfig struct {
	Format OutputFormat `mapstructure:"format"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"users-db":    "database.users_path",
	"listings-db": "database.listings_path",
	"log-level":   "log_level",
	"log-file":    "log_file",
	"format":      "output.format",
}

// Load reads configuration from the config file, FOODSHARE_* environment
// variables and the given flags, in increasing order of precedence.
// An empty path searches for foodshare.yml in the working directory and
// $HOME/.foodshare; a missing file is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("FOODSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("foodshare")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.foodshare")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Debug("using config file", "file", v.ConfigFileUsed())
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Output.Format = OutputFormat(strings.ToLower(strings.TrimSpace(string(c.Output.Format))))

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.users_path", "users.db")
	v.SetDefault("database.listings_path", "listings.db")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("output.format", string(OutputPlain))
}

// Validate checks the settings the application cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.UsersPath) == "" {
		return errors.New("database.users_path must not be empty")
	}
	if strings.TrimSpace(c.Database.ListingsPath) == "" {
		return errors.New("database.listings_path must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	switch c.Output.Format {
	case OutputPlain, OutputTable:
	default:
		return fmt.Errorf("unknown output format %q (want plain or table)", c.Output.Format)
	}
	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Users: %s, Listings: %s, Log: %s, Format: %s}", c.Database.UsersPath, c.Database.ListingsPath, c.LogLevel, c.Output.Format)
}
