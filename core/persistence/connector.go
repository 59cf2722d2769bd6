// Package persistence executes the statements built by package statement
// against a database. It owns the lazily created connection handle and emits
// lifecycle events for every operation; connectors for concrete databases
// implement the contracts declared here.
package persistence

import (
	"context"
	"database/sql"

	"github.com/asaidimu/go-sqlbind/core"
	"github.com/asaidimu/go-sqlbind/core/statement"
)

// ConnectorFactory creates connection handles. Implementations hold an
// immutable configuration captured at construction time; Connect may be called
// again to re-establish a connection.
type ConnectorFactory interface {
	Connect(ctx context.Context) (Connection, error)
}

// Connection is a live database handle. Implementations must be safe for
// concurrent use.
type Connection interface {
	// Prepare creates a prepared statement from SQL text containing ":name"
	// placeholders.
	Prepare(ctx context.Context, query string) (PreparedStatement, error)

	// LastInsertID reports the identifier generated by the insert that produced
	// res. column names the key column or sequence for drivers that need it and
	// may be empty.
	LastInsertID(ctx context.Context, res sql.Result, column string) (string, error)

	// Close releases the handle.
	Close() error
}

// PreparedStatement executes a prepared statement with a map of bind values.
type PreparedStatement interface {
	Exec(ctx context.Context, binds statement.Binds) (sql.Result, error)
	Query(ctx context.Context, binds statement.Binds) ([]core.Row, error)
	QueryColumn(ctx context.Context, binds statement.Binds) ([]any, error)
	Close() error
}

// BindStyle selects how a SQLConnection hands bind values to its driver.
type BindStyle int

const (
	// BindNamed passes sql.Named arguments and keeps ":name" placeholders in the
	// SQL text. Use it with drivers that resolve named parameters (SQLite).
	BindNamed BindStyle = iota

	// BindPositional rewrites ":name" placeholders to "?" and passes arguments in
	// order. Use it with drivers without named parameter support (MySQL).
	BindPositional
)

// String returns the style name used in logs.
func (s BindStyle) String() string {
	switch s {
	case BindNamed:
		return "named"
	case BindPositional:
		return "positional"
	default:
		return "unknown"
	}
}
