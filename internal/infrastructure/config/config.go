package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "STATEMENTS"

// DefaultJWTSecret is only meant for local and test environments
const DefaultJWTSecret = "default-secret-key-change-in-production"

// Config holds the application configuration
type Config struct {
	Server  Server  `mapstructure:"server"`
	Log     Log     `mapstructure:"log"`
	Storage Storage `mapstructure:"storage"`
	Events  Events  `mapstructure:"events"`
	Auth    Auth    `mapstructure:"auth"`

	// Env is the CONFIG_ENV the configuration was loaded for
	Env string `mapstructure:"-"`
}

// Server configuration
type Server struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// Log configuration
type Log struct {
	Level string `mapstructure:"level"`
}

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Storage selects and configures the statement and user stores
type Storage struct {
	Driver   string   `mapstructure:"driver"`
	Postgres Postgres `mapstructure:"postgres"`
	MySQL    MySQL    `mapstructure:"mysql"`
}

// Postgres configuration
type Postgres struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
}

// MySQL configuration
type MySQL struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbName"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	LogLevel        string        `mapstructure:"logLevel"`
}

// DSN builds the go-sql-driver connection string
func (c MySQL) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}

// Events configuration
type Events struct {
	Kafka Kafka `mapstructure:"kafka"`
}

// Kafka configuration. No brokers disables publishing.
type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Auth configuration
type Auth struct {
	JWTSecret  string        `mapstructure:"jwtSecret"`
	TokenTTL   time.Duration `mapstructure:"tokenTTL"`
	BcryptCost int           `mapstructure:"bcryptCost"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("log.level", "info")

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.postgres.maxOpenConns", 25)
	v.SetDefault("storage.postgres.maxIdleConns", 5)
	v.SetDefault("storage.mysql.host", "localhost")
	v.SetDefault("storage.mysql.port", 3306)
	v.SetDefault("storage.mysql.user", "root")
	v.SetDefault("storage.mysql.password", "")
	v.SetDefault("storage.mysql.dbName", "statements")
	v.SetDefault("storage.mysql.maxOpenConns", 25)
	v.SetDefault("storage.mysql.maxIdleConns", 5)
	v.SetDefault("storage.mysql.connMaxLifetime", time.Hour)
	v.SetDefault("storage.mysql.logLevel", "error")

	v.SetDefault("events.kafka.brokers", []string{})
	v.SetDefault("events.kafka.topic", "statements.created")

	v.SetDefault("auth.jwtSecret", DefaultJWTSecret)
	v.SetDefault("auth.tokenTTL", 24*time.Hour)
	v.SetDefault("auth.bcryptCost", 10)
}

// LoadConfig loads configuration from YAML files and the environment.
// app-config.yaml in configDir is the base; <CONFIG_ENV>.yaml (default local)
// is merged on top. STATEMENTS_* variables override both, e.g.
// STATEMENTS_STORAGE_DRIVER for storage.driver.
func LoadConfig(configDir string) (*Config, error) {
	configEnv := os.Getenv("CONFIG_ENV")
	if configEnv == "" {
		configEnv = "local"
	}

	v := viper.New()
	setDefaults(v)

	baseConfigPath := fmt.Sprintf("%s/app-config.yaml", configDir)
	if _, err := os.Stat(baseConfigPath); err == nil {
		v.SetConfigFile(baseConfigPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read base config file: %w", err)
		}
	}

	envConfigPath := fmt.Sprintf("%s/%s.yaml", configDir, configEnv)
	if _, err := os.Stat(envConfigPath); err == nil {
		v.SetConfigFile(envConfigPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to merge env config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// PORT is set by most container platforms
	if err := v.BindEnv("server.port", envPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Env = configEnv

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverMySQL:
	case DriverPostgres:
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwtSecret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.tokenTTL must be positive")
	}
	if len(c.Events.Kafka.Brokers) > 0 && c.Events.Kafka.Topic == "" {
		return fmt.Errorf("events.kafka.topic is required when brokers are set")
	}

	return nil
}

// Warnings lists settings that are accepted but unsafe for the loaded environment
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Auth.JWTSecret == DefaultJWTSecret && c.Env != "local" && c.Env != "test" {
		warnings = append(warnings, fmt.Sprintf(
			"auth.jwtSecret is the built-in default in the %q environment; set STATEMENTS_AUTH_JWTSECRET", c.Env))
	}
	return warnings
}
