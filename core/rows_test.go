package core

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryRows(t *testing.T, rows *sqlmock.Rows) Rows {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery("SELECT").WillReturnRows(rows)
	result, err := db.Query("SELECT")
	require.NoError(t, err)
	t.Cleanup(func() { result.Close() })
	return result
}

func TestScanRows(t *testing.T) {
	rows := queryRows(t, sqlmock.NewRows([]string{"id", "name", "bio"}).
		AddRow(int64(1), []byte("ann"), nil).
		AddRow(int64(2), "bob", "hi"))

	got, err := ScanRows(rows)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{"id": int64(1), "name": "ann", "bio": nil},
		{"id": int64(2), "name": "bob", "bio": "hi"},
	}, got)
}

func TestScanRows_Empty(t *testing.T) {
	got, err := ScanRows(queryRows(t, sqlmock.NewRows([]string{"id"})))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScanRows_RowError(t *testing.T) {
	rowErr := errors.New("connection lost")
	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)).RowError(1, rowErr)

	_, err := ScanRows(queryRows(t, rows))
	assert.ErrorIs(t, err, rowErr)
}

func TestFirstColumn(t *testing.T) {
	rows := queryRows(t, sqlmock.NewRows([]string{"name", "id"}).
		AddRow([]byte("ann"), int64(1)).
		AddRow("bob", int64(2)))

	got, err := FirstColumn(rows)
	require.NoError(t, err)
	assert.Equal(t, []any{"ann", "bob"}, got)
}
