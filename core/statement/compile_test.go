package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name          string
		sql           string
		expectedSQL   string
		expectedNames []string
	}{
		{
			name:          "no placeholders",
			sql:           "SELECT * FROM users",
			expectedSQL:   "SELECT * FROM users",
			expectedNames: nil,
		},
		{
			name:          "insert",
			sql:           "INSERT INTO users (age, name) VALUES(:d_age, :d_name)",
			expectedSQL:   "INSERT INTO users (age, name) VALUES(?, ?)",
			expectedNames: []string{"d_age", "d_name"},
		},
		{
			name:          "limit",
			sql:           "SELECT * FROM t WHERE a = :w_a_1 LIMIT :l_start, :l_offset",
			expectedSQL:   "SELECT * FROM t WHERE a = ? LIMIT ?, ?",
			expectedNames: []string{"w_a_1", "l_start", "l_offset"},
		},
		{
			name:          "quoted text is untouched",
			sql:           "SELECT ':nope', \"a:b\", `x:y` FROM t WHERE a = :yes",
			expectedSQL:   "SELECT ':nope', \"a:b\", `x:y` FROM t WHERE a = ?",
			expectedNames: []string{"yes"},
		},
		{
			name:          "escaped quote inside string",
			sql:           `SELECT 'it\'s :nope' WHERE a = :yes`,
			expectedSQL:   `SELECT 'it\'s :nope' WHERE a = ?`,
			expectedNames: []string{"yes"},
		},
		{
			name:          "cast operator and bare colon",
			sql:           "SELECT a::text, '10:30' FROM t WHERE b = :b AND c = : d",
			expectedSQL:   "SELECT a::text, '10:30' FROM t WHERE b = ? AND c = : d",
			expectedNames: []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled := Compile(tt.sql)
			assert.Equal(t, tt.expectedSQL, compiled.SQL)
			assert.Equal(t, tt.expectedNames, compiled.Names)
		})
	}
}

func TestCompiled_Args(t *testing.T) {
	compiled := Compile("SELECT * FROM t WHERE a = :x OR b = :y OR c = :x")

	args, err := compiled.Args(Binds{"x": 1, "y": "two", "unused": 3})
	require.NoError(t, err)
	assert.Equal(t, []any{1, "two", 1}, args)

	_, err = compiled.Args(Binds{"x": 1})
	assert.ErrorIs(t, err, ErrMissingBind)
	assert.Contains(t, err.Error(), ":y")
}

func TestCompile_GeneratedStatements(t *testing.T) {
	stmt, err := Update("users", map[string]any{"name": "Bo"}, Conditions(Where("users.id", 4)))
	require.NoError(t, err)

	compiled := Compile(stmt.SQL)
	assert.Equal(t, "UPDATE users SET name = ? WHERE `users.id` = ?", compiled.SQL)

	args, err := compiled.Args(stmt.Binds)
	require.NoError(t, err)
	assert.Equal(t, []any{"Bo", 4}, args)
}
