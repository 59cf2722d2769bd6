// Package utils converts between tagged Go structs and the map payloads the
// statement builders and executor work with.
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// StructToMap converts a struct into a bind-ready column map.
//
// Field names follow `json` tags, so `omitempty` and `-` control which columns
// are written. Scalars keep their Go-native form (whole numbers become int64,
// other numbers float64). Nested objects and arrays cannot be bound by a SQL
// driver and are stored as their JSON text.
//
// The input must be a struct or a non-nil pointer to one.
//
// Example:
//
//	type User struct {
//		Name  string            `json:"name"`
//		Age   int               `json:"age"`
//		Prefs map[string]string `json:"prefs,omitempty"`
//	}
//	m, err := StructToMap(User{Name: "ann", Age: 30, Prefs: map[string]string{"theme": "dark"}})
//	// m == map[string]any{"name": "ann", "age": int64(30), "prefs": `{"theme":"dark"}`}
func StructToMap[T any](record T) (map[string]any, error) {
	val := reflect.ValueOf(record)
	if !val.IsValid() {
		return nil, fmt.Errorf("input record cannot be nil")
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("input record cannot be a nil pointer to a struct")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}

	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("StructToMap: failed to marshal input record to JSON: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonBytes))
	decoder.UseNumber()
	var tempMap map[string]json.RawMessage
	if err := decoder.Decode(&tempMap); err != nil {
		return nil, fmt.Errorf("StructToMap: failed to decode record fields: %w", err)
	}

	resultMap := make(map[string]any, len(tempMap))
	for key, raw := range tempMap {
		value, err := columnValue(raw)
		if err != nil {
			return nil, fmt.Errorf("StructToMap: field '%s': %w", key, err)
		}
		resultMap[key] = value
	}
	return resultMap, nil
}

// columnValue turns one encoded field into a value a driver can bind.
func columnValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '{', '[':
		return string(trimmed), nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if n, ok := value.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		return n.Float64()
	}
	return value, nil
}

// MapToStruct decodes a result row into a new T, the inverse of StructToMap.
// Columns holding JSON text are decoded into struct, map or slice fields of T.
//
// Example:
//
//	user, err := MapToStruct[User](map[string]any{"name": "ann", "prefs": `{"theme":"dark"}`})
func MapToStruct[T any](input map[string]any) (T, error) {
	var zero T
	if input == nil {
		return zero, fmt.Errorf("MapToStruct: input map cannot be nil")
	}

	typ := reflect.TypeOf(zero)
	if typ == nil {
		return zero, fmt.Errorf("MapToStruct: generic type T must be a struct type (or pointer to struct)")
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("MapToStruct: generic type T must be a struct type (or pointer to struct), got %s", typ.Kind())
	}

	prepared := make(map[string]any, len(input))
	for key, value := range input {
		prepared[key] = expandJSON(typ, key, value)
	}

	jsonBytes, err := json.Marshal(prepared)
	if err != nil {
		return zero, fmt.Errorf("MapToStruct: failed to marshal input map to JSON: %w", err)
	}

	var result T
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return zero, fmt.Errorf("MapToStruct: failed to unmarshal JSON to target struct: %w", err)
	}
	return result, nil
}

// expandJSON returns value as raw JSON when it is text destined for a
// composite field of typ.
func expandJSON(typ reflect.Type, key string, value any) any {
	text, ok := value.(string)
	if !ok {
		return value
	}
	field, ok := fieldByTag(typ, key)
	if !ok {
		return value
	}
	kind := field.Type.Kind()
	if kind == reflect.Ptr {
		kind = field.Type.Elem().Kind()
	}
	switch kind {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		if json.Valid([]byte(text)) {
			return json.RawMessage(text)
		}
	}
	return value
}

// fieldByTag finds the field encoded under name.
func fieldByTag(typ reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		tagName, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch {
		case tagName == "-":
			continue
		case tagName == "" && field.Name == name:
			return field, true
		case tagName == name:
			return field, true
		}
	}
	return reflect.StructField{}, false
}
