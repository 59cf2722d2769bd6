package persistence

import (
	"context"
	"time"

	"github.com/asaidimu/go-sqlbind/core/statement"
	"github.com/google/uuid"
)

// StatementEventType names the lifecycle events emitted by the Executor.
type StatementEventType string

const (
	InsertStart   StatementEventType = "statement:insert:start"
	InsertSuccess StatementEventType = "statement:insert:success"
	InsertFailed  StatementEventType = "statement:insert:failed"
	UpdateStart   StatementEventType = "statement:update:start"
	UpdateSuccess StatementEventType = "statement:update:success"
	UpdateFailed  StatementEventType = "statement:update:failed"
	SelectStart   StatementEventType = "statement:select:start"
	SelectSuccess StatementEventType = "statement:select:success"
	SelectFailed  StatementEventType = "statement:select:failed"
	DeleteStart   StatementEventType = "statement:delete:start"
	DeleteSuccess StatementEventType = "statement:delete:success"
	DeleteFailed  StatementEventType = "statement:delete:failed"
	Reconnected   StatementEventType = "connection:reconnected"
)

// StatementEvent describes one step of an operation. Events of the same
// operation share an ID.
type StatementEvent struct {
	Type      StatementEventType `json:"type"`
	ID        string             `json:"id"`
	Timestamp int64              `json:"timestamp"` // Unix milliseconds.
	Operation string             `json:"operation"`
	Table     string             `json:"table,omitempty"`
	Input     any                `json:"input,omitempty"`
	Output    any                `json:"output,omitempty"`
	SQL       string             `json:"sql,omitempty"`
	Binds     statement.Binds    `json:"binds,omitempty"`
	Error     *string            `json:"error,omitempty"`
	Duration  *int64             `json:"duration,omitempty"` // Milliseconds.
}

// EventCallback receives emitted events.
type EventCallback func(ctx context.Context, event StatementEvent) error

// operationEvents groups the three event types of one operation.
type operationEvents struct {
	name    string
	start   StatementEventType
	success StatementEventType
	failed  StatementEventType
}

var (
	insertEvents = operationEvents{"insert", InsertStart, InsertSuccess, InsertFailed}
	updateEvents = operationEvents{"update", UpdateStart, UpdateSuccess, UpdateFailed}
	selectEvents = operationEvents{"select", SelectStart, SelectSuccess, SelectFailed}
	deleteEvents = operationEvents{"delete", DeleteStart, DeleteSuccess, DeleteFailed}
)

func createEvent(eventType StatementEventType, id, operation, table string, startTime time.Time) StatementEvent {
	var duration *int64
	if !startTime.IsZero() {
		d := time.Since(startTime).Milliseconds()
		duration = &d
	}
	return StatementEvent{
		Type:      eventType,
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
		Operation: operation,
		Table:     table,
		Duration:  duration,
	}
}

func (e *Executor) emitEvent(event StatementEvent) {
	if e.bus != nil {
		e.bus.Emit(string(event.Type), event)
	}
}

// withEventEmission wraps an operation with start, success and failure events.
// fn reports the statement it ran so the events can carry it.
func withEventEmission[T any](
	e *Executor,
	events operationEvents,
	table string,
	input any,
	fn func() (T, statement.Statement, error),
) (T, error) {
	id := uuid.NewString()
	startTime := time.Now()

	start := createEvent(events.start, id, events.name, table, time.Time{})
	start.Input = input
	e.emitEvent(start)

	result, stmt, err := fn()

	if err != nil {
		errStr := err.Error()
		failed := createEvent(events.failed, id, events.name, table, startTime)
		failed.Input = input
		failed.SQL = stmt.SQL
		failed.Binds = stmt.Binds
		failed.Error = &errStr
		e.emitEvent(failed)
		return result, err
	}

	success := createEvent(events.success, id, events.name, table, startTime)
	success.Input = input
	success.Output = result
	success.SQL = stmt.SQL
	success.Binds = stmt.Binds
	e.emitEvent(success)
	return result, nil
}

// Subscribe registers callback for events of eventType and returns an id for
// Unsubscribe.
func (e *Executor) Subscribe(eventType StatementEventType, callback EventCallback) string {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	unsubscribe := e.bus.Subscribe(string(eventType), func(ctx context.Context, event StatementEvent) error {
		return callback(ctx, event)
	})
	id := uuid.NewString()
	e.subscriptions[id] = unsubscribe
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (e *Executor) Unsubscribe(id string) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	if unsubscribe, ok := e.subscriptions[id]; ok {
		unsubscribe()
		delete(e.subscriptions, id)
	}
}
