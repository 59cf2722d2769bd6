package statement

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsert(t *testing.T) {
	stmt, err := Insert("users", map[string]any{
		"name":       "Alice",
		"email":      "alice@example.com",
		"profile.id": 9,
	})
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO users (email, name, `profile.id`) VALUES(:d_email, :d_name, :d_profile_id)",
		stmt.SQL)
	assert.Equal(t, Binds{
		"d_email":      "alice@example.com",
		"d_name":       "Alice",
		"d_profile_id": 9,
	}, stmt.Binds)
}

func TestInsert_OnePlaceholderPerColumn(t *testing.T) {
	data := map[string]any{"a": 1, "b": 2, "c": 3, "d": nil}
	stmt, err := Insert("t", data)
	require.NoError(t, err)

	assert.Len(t, stmt.Binds, len(data))
	assert.Equal(t, len(data), strings.Count(stmt.SQL, ":d_"))
	for name := range stmt.Binds {
		assert.True(t, strings.HasPrefix(name, DataPrefix))
	}
}

func TestInsert_SanitizedColumnsKeepTheirValues(t *testing.T) {
	stmt, err := Insert("t", map[string]any{"a-b": 1, "a-b_1": 2, "a.b": 3})
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO t (a-b, a-b_1, `a.b`) VALUES(:d_a_b, :d_a_b_1, :d_a_b_2)", stmt.SQL)
	assert.Equal(t, Binds{"d_a_b": 1, "d_a_b_1": 2, "d_a_b_2": 3}, stmt.Binds)
}

func TestInsert_DoesNotModifyInput(t *testing.T) {
	data := map[string]any{"name": "Alice"}
	_, err := Insert("users", data)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Alice"}, data)
}

func TestInsert_EmptyPayload(t *testing.T) {
	_, err := Insert("users", nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = Insert("users", map[string]any{})
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestUpdate(t *testing.T) {
	stmt, err := Update("users",
		map[string]any{"name": "Alex", "age": 31},
		Conditions(Where("id", 3), WhereOp("age", "<", 31).And()),
	)
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE users SET age = :d_age, name = :d_name WHERE id = :w_id_1 AND age < :w_age_2",
		stmt.SQL)
	assert.Equal(t, Binds{
		"d_age":   31,
		"d_name":  "Alex",
		"w_id_1":  3,
		"w_age_2": 31,
	}, stmt.Binds, "data and where placeholders never collide")
}

func TestUpdate_NoWhere(t *testing.T) {
	stmt, err := Update("users", map[string]any{"active": false}, nil)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET active = :d_active", stmt.SQL)
}

func TestUpdate_EmptyPayload(t *testing.T) {
	_, err := Update("users", map[string]any{}, Conditions(Where("id", 1)))
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name          string
		opts          Options
		expectedSQL   string
		expectedBinds Binds
	}{
		{
			name:          "no options",
			opts:          Options{},
			expectedSQL:   "SELECT * FROM users",
			expectedBinds: Binds{},
		},
		{
			name: "fields where and limit",
			opts: NewQueryBuilder().
				Fields("id", "name").
				Where("age").Gte(18).
				And("name").Like("A%").
				OrderByAsc("name").
				Limit(10).
				Build(),
			expectedSQL:   "SELECT id, name FROM users WHERE age >= :w_age_1 AND name LIKE :w_name_2 ORDER BY name ASC LIMIT :l_start, :l_offset",
			expectedBinds: Binds{"w_age_1": 18, "w_name_2": "A%", "l_start": 0, "l_offset": 10},
		},
		{
			name: "raw fragments",
			opts: Options{
				Field: Raw[[]string]("COUNT(*) AS total"),
				Where: Raw[[]Condition]("age > 18"),
				Limit: Raw[Limit]("1"),
			},
			expectedSQL:   "SELECT COUNT(*) AS total FROM users WHERE age > 18 LIMIT 1",
			expectedBinds: Binds{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := Select("users", tt.opts)
			assert.Equal(t, tt.expectedSQL, stmt.SQL)
			assert.Equal(t, tt.expectedBinds, stmt.Binds)
		})
	}
}

func TestSelect_QualifiedTable(t *testing.T) {
	stmt := Select("shop.users", Options{})
	assert.Equal(t, "SELECT * FROM `shop.users`", stmt.SQL)
}

func TestDelete(t *testing.T) {
	stmt, err := Delete("users", Conditions(WhereOp("age", "<", 28)))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users WHERE age < :w_age_1", stmt.SQL)
	assert.Equal(t, Binds{"w_age_1": 28}, stmt.Binds)
}

func TestDelete_MissingPredicate(t *testing.T) {
	_, err := Delete("users", nil)
	assert.ErrorIs(t, err, ErrMissingPredicate)

	_, err = Delete("users", []Condition{})
	assert.ErrorIs(t, err, ErrMissingPredicate)
}

func TestStatement_String(t *testing.T) {
	stmt, err := Delete("users", Conditions(Where("id", 1), Where("id", 2).Or()))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users WHERE id = :w_id_1 OR id = :w_id_2 [:w_id_1 :w_id_2]", stmt.String())

	assert.Equal(t, "SELECT * FROM users", Select("users", Options{}).String())
}
