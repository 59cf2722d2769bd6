// Package mysql connects the statement executor to MySQL through
// go-sql-driver/mysql. The driver has no named parameters, so statements are
// compiled to positional placeholders before they are prepared.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/asaidimu/go-sqlbind/core/persistence"
	driver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// Config describes a MySQL server and how the pool treats its connections.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	Charset  string

	// Persist keeps idle connections open between statements. When false
	// every statement runs on a fresh connection.
	Persist bool

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           3306,
		User:           "root",
		Charset:        "utf8mb4",
		Persist:        true,
		MaxIdleConns:   2,
		ConnectTimeout: 10 * time.Second,
	}
}

// Connector is a persistence.ConnectorFactory for MySQL. Its configuration is
// fixed when it is created.
type Connector struct {
	config Config
	dsn    string
	driver string
	logger *zap.Logger
}

var _ persistence.ConnectorFactory = (*Connector)(nil)

// NewConnector captures config and derives the DSN from it.
func NewConnector(config Config, logger *zap.Logger) *Connector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{
		config: config,
		dsn:    FormatDSN(config),
		driver: "mysql",
		logger: logger,
	}
}

// FormatDSN renders config as a go-sql-driver/mysql data source name.
func FormatDSN(config Config) string {
	cfg := driver.NewConfig()
	cfg.User = config.User
	cfg.Passwd = config.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	cfg.DBName = config.DBName
	cfg.Timeout = config.ConnectTimeout
	if config.Charset != "" {
		cfg.Params = map[string]string{"charset": config.Charset}
	}
	return cfg.FormatDSN()
}

// Config returns the configuration the connector was created with.
func (c *Connector) Config() Config {
	return c.config
}

// Connect opens a pool, applies the pool settings and verifies the server is
// reachable.
func (c *Connector) Connect(ctx context.Context) (persistence.Connection, error) {
	c.logger.Debug("Connecting to MySQL",
		zap.String("addr", net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))),
		zap.String("database", c.config.DBName),
		zap.Bool("persist", c.config.Persist),
	)

	db, err := sql.Open(c.driver, c.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(c.config.MaxOpenConns)
	db.SetConnMaxLifetime(c.config.ConnMaxLifetime)
	if c.config.Persist {
		db.SetMaxIdleConns(c.config.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(0)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		c.logger.Error("Failed to ping MySQL", zap.Error(err))
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return persistence.NewSQLConnection(db, persistence.BindPositional, c.logger), nil
}
