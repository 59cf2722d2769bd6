package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city"`
}

type account struct {
	ID      int64             `json:"id,omitempty"`
	Name    string            `json:"name"`
	Score   float64           `json:"score"`
	Active  bool              `json:"active"`
	Note    *string           `json:"note"`
	Address address           `json:"address"`
	Tags    []string          `json:"tags,omitempty"`
	Prefs   map[string]string `json:"prefs,omitempty"`
	Secret  string            `json:"-"`
	private string
}

func TestStructToMap(t *testing.T) {
	rec := account{
		Name:    "ann",
		Score:   1.5,
		Active:  true,
		Address: address{City: "Nairobi"},
		Tags:    []string{"a", "b"},
		Secret:  "x",
		private: "y",
	}

	got, err := StructToMap(rec)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":    "ann",
		"score":   1.5,
		"active":  true,
		"note":    nil,
		"address": `{"city":"Nairobi"}`,
		"tags":    `["a","b"]`,
	}, got)
}

func TestStructToMap_Numbers(t *testing.T) {
	got, err := StructToMap(&account{ID: 42, Name: "bob", Score: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got["id"])
	assert.Equal(t, int64(3), got["score"])
}

func TestStructToMap_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "nil", input: nil},
		{name: "nil pointer", input: (*account)(nil)},
		{name: "not a struct", input: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StructToMap(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestMapToStruct(t *testing.T) {
	got, err := MapToStruct[account](map[string]any{
		"id":      int64(7),
		"name":    "ann",
		"address": `{"city":"Mombasa"}`,
		"tags":    `["x"]`,
		"prefs":   `{"theme":"dark"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "ann", got.Name)
	assert.Equal(t, "Mombasa", got.Address.City)
	assert.Equal(t, []string{"x"}, got.Tags)
	assert.Equal(t, map[string]string{"theme": "dark"}, got.Prefs)
}

func TestMapToStruct_RoundTrip(t *testing.T) {
	in := account{Name: "eve", Active: true, Address: address{City: "Kisumu"}}
	m, err := StructToMap(in)
	require.NoError(t, err)

	out, err := MapToStruct[*account](m)
	require.NoError(t, err)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Address, out.Address)
	assert.True(t, out.Active)
}

func TestMapToStruct_Errors(t *testing.T) {
	_, err := MapToStruct[account](nil)
	assert.Error(t, err)

	_, err = MapToStruct[int](map[string]any{"a": 1})
	assert.Error(t, err)
}
