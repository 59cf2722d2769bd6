// Package core holds the value types shared by the statement orchestrator and
// the connectors.
package core

import (
	"database/sql"
	"fmt"
)

// Row represents a single record retrieved from the database, keyed by column
// name.
type Row map[string]any

// Rows is the subset of *sql.Rows that ScanRows needs.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

var _ Rows = (*sql.Rows)(nil)

// ScanRows reads every remaining row into a Row. Byte slices are converted to
// strings, since drivers return TEXT columns that way; the caller still owns and
// closes rows.
func ScanRows(rows Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	results := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}
	return results, nil
}

// FirstColumn returns the value of the first column of every row.
func FirstColumn(rows Rows) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	if len(columns) == 0 {
		return []any{}, nil
	}

	values := []any{}
	for rows.Next() {
		dest := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range dest {
			scanArgs[i] = &dest[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if b, ok := dest[0].([]byte); ok {
			values = append(values, string(b))
			continue
		}
		values = append(values, dest[0])
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}
	return values, nil
}
