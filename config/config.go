// Package config loads connection settings from a config file, .env files and
// SQLBIND_ environment variables, and turns them into a connector factory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asaidimu/go-sqlbind/core/persistence"
	"github.com/asaidimu/go-sqlbind/mysql"
	"github.com/asaidimu/go-sqlbind/sqlite"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SQLBIND"

// Database types understood by Connector.
const (
	TypeMySQL  = "mysql"
	TypeSQLite = "sqlite"
)

// ErrUnsupportedType is returned by Connector for an unknown database type.
var ErrUnsupportedType = errors.New("config: unsupported database type")

// Config holds connection settings. The keys mirror the connection options of
// the database drivers: type, host, port, user, pwd, db_name, charset and
// persist, plus path for SQLite files.
type Config struct {
	Type     string `mapstructure:"type"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"pwd"`
	DBName   string `mapstructure:"db_name"`
	Charset  string `mapstructure:"charset"`
	Persist  bool   `mapstructure:"persist"`
	Path     string `mapstructure:"path"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFile names an explicit config file. It must exist.
	ConfigFile string
	// Dir is searched for sqlbind.{yaml,json,toml}, .env and .env.local.
	// Defaults to the working directory.
	Dir string
}

func setDefaults(v *viper.Viper) {
	defaults := mysql.DefaultConfig()
	v.SetDefault("type", TypeMySQL)
	v.SetDefault("host", defaults.Host)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("user", defaults.User)
	v.SetDefault("pwd", defaults.Password)
	v.SetDefault("db_name", defaults.DBName)
	v.SetDefault("charset", defaults.Charset)
	v.SetDefault("persist", defaults.Persist)
	v.SetDefault("path", "sqlbind.db")
	v.SetDefault("max_open_conns", 0)
	v.SetDefault("max_idle_conns", defaults.MaxIdleConns)
	v.SetDefault("conn_max_lifetime", time.Duration(0))
	v.SetDefault("connect_timeout", defaults.ConnectTimeout)
}

// Load reads settings in increasing priority: defaults, config file,
// environment (after .env and .env.local are applied).
func Load(opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := loadEnvFiles(dir); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("sqlbind")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// loadEnvFiles applies .env without overriding the environment, then
// .env.local over everything.
func loadEnvFiles(dir string) error {
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	localFile := filepath.Join(dir, ".env.local")
	if _, err := os.Stat(localFile); err == nil {
		if err := godotenv.Overload(localFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", localFile, err)
		}
	}
	return nil
}

// MySQL returns the MySQL connector settings of c.
func (c *Config) MySQL() mysql.Config {
	return mysql.Config{
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		DBName:          c.DBName,
		Charset:         c.Charset,
		Persist:         c.Persist,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		ConnectTimeout:  c.ConnectTimeout,
	}
}

// SQLite returns the SQLite connector settings of c.
func (c *Config) SQLite() sqlite.Config {
	cfg := sqlite.DefaultConfig(c.Path)
	cfg.MaxOpenConns = c.MaxOpenConns
	if c.ConnectTimeout > 0 {
		cfg.BusyTimeout = c.ConnectTimeout
	}
	return cfg
}

// Connector builds the connector factory for the configured database type.
func (c *Config) Connector(logger *zap.Logger) (persistence.ConnectorFactory, error) {
	switch strings.ToLower(strings.TrimSpace(c.Type)) {
	case TypeMySQL:
		return mysql.NewConnector(c.MySQL(), logger), nil
	case TypeSQLite, "sqlite3":
		return sqlite.NewConnector(c.SQLite(), logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, c.Type)
	}
}
