package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/asaidimu/go-sqlbind/core"
	"github.com/asaidimu/go-sqlbind/core/statement"
	"go.uber.org/zap"
)

// SQLConnection is a Connection over a database/sql pool. The pool provides the
// concurrency discipline; SQLConnection itself holds no mutable state.
type SQLConnection struct {
	db     *sql.DB
	style  BindStyle
	logger *zap.Logger
}

// Ensure SQLConnection implements the Connection interface.
var _ Connection = (*SQLConnection)(nil)

// NewSQLConnection wraps db. A nil logger disables logging.
func NewSQLConnection(db *sql.DB, style BindStyle, logger *zap.Logger) *SQLConnection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLConnection{db: db, style: style, logger: logger}
}

// DB returns the underlying pool.
func (c *SQLConnection) DB() *sql.DB {
	return c.db
}

// Prepare compiles the placeholders of query and prepares it on the pool.
func (c *SQLConnection) Prepare(ctx context.Context, query string) (PreparedStatement, error) {
	compiled := statement.Compile(query)
	text := query
	if c.style == BindPositional {
		text = compiled.SQL
	}

	c.logger.Debug("Preparing SQL statement", zap.String("sql", text), zap.Stringer("bindStyle", c.style))

	stmt, err := c.db.PrepareContext(ctx, text)
	if err != nil {
		c.logger.Error("Failed to prepare statement", zap.Error(err), zap.String("sql", text))
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	return &sqlStatement{
		stmt:     stmt,
		compiled: compiled,
		style:    c.style,
		logger:   c.logger,
	}, nil
}

// LastInsertID reads the generated identifier from res. MySQL and SQLite report
// a single auto-increment value per connection, so column is not consulted.
func (c *SQLConnection) LastInsertID(ctx context.Context, res sql.Result, column string) (string, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("failed to read last insert id: %w", err)
	}
	if column != "" {
		c.logger.Debug("Last insert id", zap.String("column", column), zap.Int64("id", id))
	}
	return strconv.FormatInt(id, 10), nil
}

// Close closes the pool.
func (c *SQLConnection) Close() error {
	return c.db.Close()
}

// sqlStatement is a PreparedStatement over *sql.Stmt.
type sqlStatement struct {
	stmt     *sql.Stmt
	compiled statement.Compiled
	style    BindStyle
	logger   *zap.Logger
}

// args orders or names the bind values for the driver.
func (s *sqlStatement) args(binds statement.Binds) ([]any, error) {
	if s.style == BindPositional {
		return s.compiled.Args(binds)
	}

	seen := make(map[string]struct{}, len(s.compiled.Names))
	args := make([]any, 0, len(s.compiled.Names))
	for _, name := range s.compiled.Names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		value, ok := binds[name]
		if !ok {
			return nil, fmt.Errorf("%w: :%s", statement.ErrMissingBind, name)
		}
		args = append(args, sql.Named(name, value))
	}
	return args, nil
}

func (s *sqlStatement) Exec(ctx context.Context, binds statement.Binds) (sql.Result, error) {
	args, err := s.args(binds)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Executing prepared statement", zap.Any("args", args))

	res, err := s.stmt.ExecContext(ctx, args...)
	if err != nil {
		s.logger.Error("Failed to execute statement", zap.Error(err))
		return nil, fmt.Errorf("failed to execute statement: %w", err)
	}
	return res, nil
}

func (s *sqlStatement) query(ctx context.Context, binds statement.Binds) (*sql.Rows, error) {
	args, err := s.args(binds)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Querying prepared statement", zap.Any("args", args))

	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		s.logger.Error("Failed to execute query", zap.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

func (s *sqlStatement) Query(ctx context.Context, binds statement.Binds) ([]core.Row, error) {
	rows, err := s.query(ctx, binds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return core.ScanRows(rows)
}

func (s *sqlStatement) QueryColumn(ctx context.Context, binds statement.Binds) ([]any, error) {
	rows, err := s.query(ctx, binds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return core.FirstColumn(rows)
}

func (s *sqlStatement) Close() error {
	return s.stmt.Close()
}
