package persistence

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/asaidimu/go-sqlbind/core/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindStyle_String(t *testing.T) {
	assert.Equal(t, "named", BindNamed.String())
	assert.Equal(t, "positional", BindPositional.String())
	assert.Equal(t, "unknown", BindStyle(9).String())
}

func TestSQLStatement_Args(t *testing.T) {
	query := "SELECT * FROM t WHERE a = :w_a_1 OR a = :w_a_1 AND b = :w_b_2"
	binds := statement.Binds{"w_a_1": 1, "w_b_2": "x", "unused": true}

	tests := []struct {
		name     string
		style    BindStyle
		expected []any
	}{
		{
			name:     "positional binds every occurrence in order",
			style:    BindPositional,
			expected: []any{1, 1, "x"},
		},
		{
			name:     "named binds each name once",
			style:    BindNamed,
			expected: []any{sql.Named("w_a_1", 1), sql.Named("w_b_2", "x")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := &sqlStatement{compiled: statement.Compile(query), style: tt.style}
			args, err := stmt.args(binds)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, args)
		})
	}
}

func TestSQLStatement_ArgsMissingBind(t *testing.T) {
	for _, style := range []BindStyle{BindNamed, BindPositional} {
		stmt := &sqlStatement{compiled: statement.Compile("DELETE FROM t WHERE id = :w_id_1"), style: style}
		_, err := stmt.args(statement.Binds{})
		assert.ErrorIs(t, err, statement.ErrMissingBind, style.String())
	}
}

func TestSQLConnection_PositionalRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conn := NewSQLConnection(db, BindPositional, nil)
	assert.Same(t, db, conn.DB())
	ctx := context.Background()

	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO `shop.users` (name) VALUES(?)")).
		ExpectExec().
		WithArgs("ann").
		WillReturnResult(sqlmock.NewResult(12, 1))

	stmt, err := statement.Insert("shop.users", map[string]any{"name": "ann"})
	require.NoError(t, err)

	prepared, err := conn.Prepare(ctx, stmt.SQL)
	require.NoError(t, err)
	res, err := prepared.Exec(ctx, stmt.Binds)
	require.NoError(t, err)
	require.NoError(t, prepared.Close())

	id, err := conn.LastInsertID(ctx, res, "id")
	require.NoError(t, err)
	assert.Equal(t, "12", id)

	mock.ExpectClose()
	require.NoError(t, conn.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLConnection_PrepareError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	prepareErr := errors.New("syntax error")
	mock.ExpectPrepare("SELECT").WillReturnError(prepareErr)

	_, err = NewSQLConnection(db, BindPositional, nil).Prepare(context.Background(), "SELECT * FROM users")
	assert.ErrorIs(t, err, prepareErr)
}

func TestSQLConnection_LastInsertIDError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	resultErr := errors.New("no id")
	_, err = NewSQLConnection(db, BindPositional, nil).
		LastInsertID(context.Background(), sqlmock.NewErrorResult(resultErr), "")
	assert.ErrorIs(t, err, resultErr)
}
