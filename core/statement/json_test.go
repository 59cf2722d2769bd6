package statement

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_UnmarshalJSON_Structured(t *testing.T) {
	doc := `{
		"field": ["users.id", "name"],
		"join":  {"orders": ["users.id", "orders.user_id"], "items": ["orders.id", "=", "items.order_id", "left"]},
		"where": [["age", ">", 18], ["name", "bob"], ["city", "=", "Oslo", "or"]],
		"order": {"name": "asc", "id": "nonsense"},
		"group": ["city"],
		"limit": [20, 10]
	}`

	var opts Options
	require.NoError(t, json.Unmarshal([]byte(doc), &opts))

	stmt := Select("users", opts)
	assert.Equal(t,
		"SELECT `users.id`, name FROM users "+
			"INNER JOIN orders ON users.id = orders.user_id LEFT JOIN items ON orders.id = items.order_id "+
			"WHERE age > :w_age_1 name = :w_name_2 OR city = :w_city_3 "+
			"ORDER BY name ASC, id DESC "+
			"GROUP BY city "+
			"LIMIT :l_start, :l_offset",
		stmt.SQL)
	assert.Equal(t, Binds{
		"w_age_1":  int64(18),
		"w_name_2": "bob",
		"w_city_3": "Oslo",
		"l_start":  20,
		"l_offset": 10,
	}, stmt.Binds)
}

func TestOptions_UnmarshalJSON_Raw(t *testing.T) {
	doc := `{
		"field": "COUNT(*) AS n",
		"join":  "orders ON users.id = orders.user_id",
		"where": "age > 18",
		"order": "id DESC",
		"group": "city",
		"limit": "10 OFFSET 5"
	}`

	var opts Options
	require.NoError(t, json.Unmarshal([]byte(doc), &opts))

	stmt := Select("users", opts)
	assert.Equal(t,
		"SELECT COUNT(*) AS n FROM users INNER JOIN orders ON users.id = orders.user_id WHERE age > 18 ORDER BY id DESC GROUP BY city LIMIT 10 OFFSET 5",
		stmt.SQL)
	assert.Empty(t, stmt.Binds)
}

func TestOptions_UnmarshalJSON_Limit(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected Binds
	}{
		{"number", `{"limit": 5}`, Binds{"l_start": 0, "l_offset": 5}},
		{"single element", `{"limit": [5]}`, Binds{"l_start": 0, "l_offset": 5}},
		{"pair", `{"limit": [0, 5]}`, Binds{"l_start": 0, "l_offset": 5}},
		{"numeric string", `{"limit": "5"}`, Binds{"l_start": 0, "l_offset": 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &opts))
			assert.Equal(t, tt.expected, Select("t", opts).Binds)
		})
	}
}

func TestOptions_UnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an object", `[1, 2]`},
		{"unknown key", `{"having": "x"}`},
		{"bad where tuple", `{"where": [["age"]]}`},
		{"bad join tuple", `{"join": {"orders": ["a"]}}`},
		{"join not an object", `{"join": ["a", "b"]}`},
		{"bad limit", `{"limit": [1, 2, 3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			assert.Error(t, json.Unmarshal([]byte(tt.doc), &opts))
		})
	}
}

func TestOptions_UnmarshalJSON_EmptyLimit(t *testing.T) {
	var opts Options
	require.NoError(t, json.Unmarshal([]byte(`{"field": ["id"], "limit": []}`), &opts))
	assert.False(t, opts.Limit.IsSet())

	stmt := Select("t", opts)
	assert.Equal(t, "SELECT id FROM t", stmt.SQL)
	assert.Empty(t, stmt.Binds)
}

func TestOptions_UnmarshalJSON_NullIsUnset(t *testing.T) {
	var opts Options
	require.NoError(t, json.Unmarshal([]byte(`{"field": null, "where": null}`), &opts))
	assert.False(t, opts.Field.IsSet())
	assert.False(t, opts.Where.IsSet())
}

func TestParseConditions(t *testing.T) {
	conds, err := ParseConditions([]byte(`[["id", 3], ["score", ">=", 9.5, "and"]]`))
	require.NoError(t, err)
	assert.Equal(t, []Condition{
		{Column: "id", Value: int64(3)},
		{Column: "score", Operator: ">=", Value: 9.5, Connector: "and"},
	}, conds)

	_, err = ParseConditions([]byte(`{"id": 3}`))
	assert.Error(t, err)
}

func TestParseData(t *testing.T) {
	data, err := ParseData([]byte(`{"name": "Alice", "age": 30, "score": 1.5, "active": true, "note": null}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "Alice",
		"age":    int64(30),
		"score":  1.5,
		"active": true,
		"note":   nil,
	}, data)
}
