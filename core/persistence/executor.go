package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/asaidimu/go-sqlbind/core"
	"github.com/asaidimu/go-sqlbind/core/statement"
	"github.com/asaidimu/go-sqlbind/utils"
	"go.uber.org/zap"
)

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	Logger *zap.Logger
}

// Executor builds statements, prepares them on a connection obtained from its
// factory and binds the values collected while building.
type Executor struct {
	factory ConnectorFactory
	logger  *zap.Logger

	mu   sync.Mutex
	conn Connection

	bus           *events.TypedEventBus[StatementEvent]
	subMu         sync.Mutex
	subscriptions map[string]func()
}

// NewExecutor creates an Executor. No connection is made until the first
// operation runs.
func NewExecutor(factory ConnectorFactory, opts *ExecutorOptions) (*Executor, error) {
	if factory == nil {
		return nil, fmt.Errorf("connector factory cannot be nil")
	}
	logger := zap.NewNop()
	if opts != nil && opts.Logger != nil {
		logger = opts.Logger
	}

	bus, err := events.NewTypedEventBus[StatementEvent](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	return &Executor{
		factory:       factory,
		logger:        logger,
		bus:           bus,
		subscriptions: make(map[string]func()),
	}, nil
}

// connection returns the cached handle, connecting on first use.
func (e *Executor) connection(ctx context.Context) (Connection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn != nil {
		return e.conn, nil
	}
	conn, err := e.factory.Connect(ctx)
	if err != nil {
		e.logger.Error("Failed to connect", zap.Error(err))
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	e.logger.Debug("Connection established")
	e.conn = conn
	return conn, nil
}

// Reconnect drops the current handle and asks the factory for a new one.
func (e *Executor) Reconnect(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn != nil {
		if err := e.conn.Close(); err != nil {
			e.logger.Warn("Failed to close previous connection", zap.Error(err))
		}
		e.conn = nil
	}

	conn, err := e.factory.Connect(ctx)
	if err != nil {
		e.logger.Error("Failed to reconnect", zap.Error(err))
		return fmt.Errorf("failed to reconnect: %w", err)
	}
	e.conn = conn
	e.logger.Info("Connection re-established")
	e.emitEvent(createEvent(Reconnected, "", "reconnect", "", time.Time{}))
	return nil
}

// Close releases the connection handle, if any. The executor reconnects on
// its next operation.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn == nil {
		return nil
	}
	err := e.conn.Close()
	e.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// Insert writes one row and returns the identifier the database generated
// for it.
func (e *Executor) Insert(ctx context.Context, table string, data map[string]any) (string, error) {
	return e.InsertWithKey(ctx, table, data, "")
}

// InsertWithKey is Insert with the key column (or sequence) whose generated
// value is reported.
func (e *Executor) InsertWithKey(ctx context.Context, table string, data map[string]any, column string) (string, error) {
	return withEventEmission(e, insertEvents, table, data, func() (string, statement.Statement, error) {
		stmt, err := statement.Insert(table, data)
		if err != nil {
			return "", stmt, err
		}

		conn, err := e.connection(ctx)
		if err != nil {
			return "", stmt, err
		}
		prepared, err := e.prepare(ctx, conn, stmt)
		if err != nil {
			return "", stmt, err
		}
		defer prepared.Close()

		res, err := prepared.Exec(ctx, stmt.Binds)
		if err != nil {
			return "", stmt, fmt.Errorf("insert into %s: %w", table, err)
		}
		id, err := conn.LastInsertID(ctx, res, column)
		if err != nil {
			return "", stmt, fmt.Errorf("insert into %s: %w", table, err)
		}
		e.logger.Debug("Inserted row", zap.String("table", table), zap.String("id", id))
		return id, stmt, nil
	})
}

// InsertRecord inserts a tagged struct, using its json tags as column names.
func (e *Executor) InsertRecord(ctx context.Context, table string, record any) (string, error) {
	data, err := utils.StructToMap(record)
	if err != nil {
		return "", fmt.Errorf("failed to convert record: %w", err)
	}
	return e.Insert(ctx, table, data)
}

// Update sets data on the rows matching where and returns the affected row
// count. An empty where updates every row.
func (e *Executor) Update(ctx context.Context, table string, data map[string]any, where []statement.Condition) (int64, error) {
	input := map[string]any{"data": data, "where": where}
	return withEventEmission(e, updateEvents, table, input, func() (int64, statement.Statement, error) {
		stmt, err := statement.Update(table, data, where)
		if err != nil {
			return 0, stmt, err
		}
		affected, err := e.exec(ctx, stmt)
		if err != nil {
			return 0, stmt, fmt.Errorf("update %s: %w", table, err)
		}
		return affected, stmt, nil
	})
}

// Select returns the rows matching opts.
func (e *Executor) Select(ctx context.Context, table string, opts statement.Options) ([]core.Row, error) {
	return withEventEmission(e, selectEvents, table, opts, func() ([]core.Row, statement.Statement, error) {
		stmt := statement.Select(table, opts)

		conn, err := e.connection(ctx)
		if err != nil {
			return nil, stmt, err
		}
		prepared, err := e.prepare(ctx, conn, stmt)
		if err != nil {
			return nil, stmt, err
		}
		defer prepared.Close()

		rows, err := prepared.Query(ctx, stmt.Binds)
		if err != nil {
			return nil, stmt, fmt.Errorf("select from %s: %w", table, err)
		}
		e.logger.Debug("Fetched rows", zap.String("table", table), zap.Int("count", len(rows)))
		return rows, stmt, nil
	})
}

// SelectColumn is Select returning only the first column of every row.
func (e *Executor) SelectColumn(ctx context.Context, table string, opts statement.Options) ([]any, error) {
	return withEventEmission(e, selectEvents, table, opts, func() ([]any, statement.Statement, error) {
		stmt := statement.Select(table, opts)

		conn, err := e.connection(ctx)
		if err != nil {
			return nil, stmt, err
		}
		prepared, err := e.prepare(ctx, conn, stmt)
		if err != nil {
			return nil, stmt, err
		}
		defer prepared.Close()

		values, err := prepared.QueryColumn(ctx, stmt.Binds)
		if err != nil {
			return nil, stmt, fmt.Errorf("select from %s: %w", table, err)
		}
		return values, stmt, nil
	})
}

// Delete removes the rows matching where and returns the affected row count.
// An empty where is rejected before any connection is made.
func (e *Executor) Delete(ctx context.Context, table string, where []statement.Condition) (int64, error) {
	return withEventEmission(e, deleteEvents, table, where, func() (int64, statement.Statement, error) {
		stmt, err := statement.Delete(table, where)
		if err != nil {
			return 0, stmt, err
		}
		affected, err := e.exec(ctx, stmt)
		if err != nil {
			return 0, stmt, fmt.Errorf("delete from %s: %w", table, err)
		}
		return affected, stmt, nil
	})
}

func (e *Executor) prepare(ctx context.Context, conn Connection, stmt statement.Statement) (PreparedStatement, error) {
	e.logger.Debug("Executing statement", zap.String("sql", stmt.SQL), zap.Any("binds", stmt.Binds))
	return conn.Prepare(ctx, stmt.SQL)
}

// exec runs a statement that returns no rows and reports the affected count.
func (e *Executor) exec(ctx context.Context, stmt statement.Statement) (int64, error) {
	conn, err := e.connection(ctx)
	if err != nil {
		return 0, err
	}
	prepared, err := e.prepare(ctx, conn, stmt)
	if err != nil {
		return 0, err
	}
	defer prepared.Close()

	res, err := prepared.Exec(ctx, stmt.Binds)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}
