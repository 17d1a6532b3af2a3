// Package config loads tracker settings from defaults, an optional YAML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config keys. Each is also read from the upper-cased environment variable.
const (
	KeyHTTPAddr      = "http_addr"
	KeyDBDriver      = "db_driver"
	KeyDBDSN         = "db_dsn"
	KeyRabbitMQURL   = "rabbitmq_url"
	KeyRabbitMQQueue = "rabbitmq_queue"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeySeedDemo      = "seed_demo"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var (
	ErrDriverUnknown = errors.New("unknown database driver")
	ErrDSNEmpty      = errors.New("database DSN must not be empty")
)

// Config holds everything the tracker needs at startup.
type Config struct {
	HTTPAddr      string `mapstructure:"http_addr"`
	DBDriver      string `mapstructure:"db_driver"`
	DBDSN         string `mapstructure:"db_dsn"`
	RabbitMQURL   string `mapstructure:"rabbitmq_url"`
	RabbitMQQueue string `mapstructure:"rabbitmq_queue"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	SeedDemo      bool   `mapstructure:"seed_demo"`
}

// Load reads configuration. configFile may be empty; a missing .env is not an error.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyDBDriver, DriverSQLite)
	v.SetDefault(KeyDBDSN, "tracker.db")
	v.SetDefault(KeyRabbitMQURL, "")
	v.SetDefault(KeyRabbitMQQueue, "application_events")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeySeedDemo, false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the database settings are usable.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("%w: %q", ErrDriverUnknown, c.DBDriver)
	}
	if c.DBDSN == "" {
		return ErrDSNEmpty
	}
	return nil
}

func (c Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}
