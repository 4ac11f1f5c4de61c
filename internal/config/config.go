package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "DENTALMARK"

// Store drivers.
const (
	DriverSQLite     = "sqlite"
	DriverPostgres   = "postgres"
	DriverGormSQLite = "gorm-sqlite"
)

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

type GraylogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// OtelConfig controls the OpenTelemetry meter provider. Metrics are exported
// as JSON to MetricsFile, or stderr when it is empty, every Interval.
type OtelConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MetricsFile string        `mapstructure:"metricsFile"`
	Interval    time.Duration `mapstructure:"interval"`
}

type Config struct {
	Store    StoreConfig   `mapstructure:"store"`
	DB       DBConfig      `mapstructure:"db"`
	LogLevel string        `mapstructure:"logLevel"`
	LogFile  string        `mapstructure:"logFile"`
	Graylog  GraylogConfig `mapstructure:"graylog"`
	Otel     OtelConfig    `mapstructure:"otel"`
	Company  string        `mapstructure:"company"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", defaultStorePath())

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.username", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.database", "dentalmark")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("logLevel", "warn")
	v.SetDefault("logFile", "")

	v.SetDefault("graylog.enabled", false)
	v.SetDefault("graylog.address", "localhost:12201")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.metricsFile", "")
	v.SetDefault("otel.interval", 30*time.Second)
	v.SetDefault("company", "")
}

func defaultStorePath() string {
	if p := os.Getenv("DENTALMARK_DB"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "dentalmark.db"
	}
	return filepath.Join(home, ".dentalmark", "dentalmark.db")
}

// Load resolves configuration from defaults, the optional config file,
// a .env file in the working directory and DENTALMARK_* environment variables,
// in increasing order of precedence. An empty file path skips the file.
func Load(file string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv never overrides variables already present in the environment.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverGormSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("config: store.path is required for driver %q", c.Store.Driver)
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}
	if c.Otel.Enabled && c.Otel.Interval <= 0 {
		return fmt.Errorf("config: otel.interval must be positive, got %s", c.Otel.Interval)
	}
	return nil
}
