// Package sqlite connects the statement executor to SQLite databases through
// mattn/go-sqlite3, which resolves ":name" parameters natively.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/asaidimu/go-sqlbind/core/persistence"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Config describes a SQLite database file and pool settings.
type Config struct {
	Path         string
	BusyTimeout  time.Duration
	ForeignKeys  bool
	MaxOpenConns int
}

// DefaultConfig returns the settings for the database at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		BusyTimeout: 5 * time.Second,
		ForeignKeys: true,
	}
}

// Connector is a persistence.ConnectorFactory for SQLite.
type Connector struct {
	config Config
	dsn    string
	logger *zap.Logger
}

var _ persistence.ConnectorFactory = (*Connector)(nil)

// NewConnector captures config and derives the DSN from it.
func NewConnector(config Config, logger *zap.Logger) *Connector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{config: config, dsn: FormatDSN(config), logger: logger}
}

// FormatDSN renders config as a go-sqlite3 data source name.
func FormatDSN(config Config) string {
	params := url.Values{}
	if config.BusyTimeout > 0 {
		params.Set("_busy_timeout", strconv.FormatInt(config.BusyTimeout.Milliseconds(), 10))
	}
	if config.ForeignKeys {
		params.Set("_foreign_keys", "1")
	}

	dsn := "file:" + config.Path
	if len(params) > 0 {
		dsn += "?" + params.Encode()
	}
	return dsn
}

// Config returns the configuration the connector was created with.
func (c *Connector) Config() Config {
	return c.config
}

// Connect implements persistence.ConnectorFactory.
func (c *Connector) Connect(ctx context.Context) (persistence.Connection, error) {
	return c.Open(ctx)
}

// Open opens the database and returns a Connection with SQLite helpers.
func (c *Connector) Open(ctx context.Context) (*Connection, error) {
	c.logger.Debug("Opening SQLite database", zap.String("dsn", c.dsn))

	db, err := sql.Open("sqlite3", c.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := c.config.MaxOpenConns
	if c.config.Path == MemoryPath {
		// Every connection to an in-memory database sees its own copy.
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{
		SQLConnection: persistence.NewSQLConnection(db, persistence.BindNamed, c.logger),
		logger:        c.logger,
	}, nil
}

// Connection is a persistence.Connection over SQLite with schema helpers used
// by tools and tests.
type Connection struct {
	*persistence.SQLConnection
	logger *zap.Logger
}

// ExecScript runs semicolon separated DDL or DML statements.
func (c *Connection) ExecScript(ctx context.Context, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		c.logger.Debug("Executing script statement", zap.String("sql", stmt))
		if _, err := c.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute SQL statement '%s': %w", stmt, err)
		}
	}
	return nil
}

// TableExists reports whether table is present in the database.
func (c *Connection) TableExists(ctx context.Context, table string) (bool, error) {
	var name string
	err := c.DB().QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	return true, nil
}

// DropTable drops table if it exists.
func (c *Connection) DropTable(ctx context.Context, table string) error {
	query := "DROP TABLE IF EXISTS " + quoteIdentifier(table)
	if _, err := c.DB().ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	return nil
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
