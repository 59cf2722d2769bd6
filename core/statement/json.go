package statement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UnmarshalJSON decodes the loose document form of select options:
//
//	{
//	  "field": ["id", "users.name"] | "raw",
//	  "join":  {"orders": ["users.id", "orders.user_id"]} | "raw",
//	  "where": [["age", ">", 18], ["name", "bob", "and"]] | "raw",
//	  "order": {"id": "desc"} | "raw",
//	  "group": ["age"] | "raw",
//	  "limit": 10 | [10] | [20, 10] | "raw"
//	}
//
// Key order of the join and order objects is preserved.
func (o *Options) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding options: %w", err)
	}

	var opts Options
	for key, raw := range doc {
		if isNull(raw) {
			continue
		}
		var err error
		switch key {
		case "field":
			opts.Field, err = decodeStrings(raw)
		case "join":
			opts.Join, err = decodeJoins(raw)
		case "where":
			opts.Where, err = decodeWhere(raw)
		case "order":
			opts.Order, err = decodeOrders(raw)
		case "group":
			opts.Group, err = decodeStrings(raw)
		case "limit":
			opts.Limit, err = decodeLimit(raw)
		default:
			err = fmt.Errorf("unknown option")
		}
		if err != nil {
			return fmt.Errorf("option %q: %w", key, err)
		}
	}
	*o = opts
	return nil
}

// ParseConditions decodes a JSON list of condition tuples.
func ParseConditions(data []byte) ([]Condition, error) {
	var tuples [][]any
	if err := decodeValues(data, &tuples); err != nil {
		return nil, fmt.Errorf("decoding conditions: %w", err)
	}
	for _, tuple := range tuples {
		normalizeNumbers(tuple)
	}
	return ConditionsFromTuples(tuples)
}

// ParseData decodes a JSON object into a column-value payload. Integral numbers
// become int64 and the rest float64.
func ParseData(data []byte) (map[string]any, error) {
	var payload map[string]any
	if err := decodeValues(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding data: %w", err)
	}
	for key, value := range payload {
		payload[key] = normalizeNumber(value)
	}
	return payload, nil
}

func decodeStrings(raw json.RawMessage) (Variant[[]string], error) {
	if s, ok := asString(raw); ok {
		return Raw[[]string](s), nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return Variant[[]string]{}, err
	}
	return Structured(values), nil
}

func decodeWhere(raw json.RawMessage) (Variant[[]Condition], error) {
	if s, ok := asString(raw); ok {
		return Raw[[]Condition](s), nil
	}
	conds, err := ParseConditions(raw)
	if err != nil {
		return Variant[[]Condition]{}, err
	}
	return Structured(conds), nil
}

func decodeJoins(raw json.RawMessage) (Variant[[]Join], error) {
	if s, ok := asString(raw); ok {
		return Raw[[]Join](s), nil
	}
	var joins []Join
	err := decodeObject(raw, func(table string, value json.RawMessage) error {
		var tuple []any
		if err := decodeValues(value, &tuple); err != nil {
			return fmt.Errorf("join %q: %w", table, err)
		}
		j, err := JoinFromTuple(table, tuple)
		if err != nil {
			return err
		}
		joins = append(joins, j)
		return nil
	})
	if err != nil {
		return Variant[[]Join]{}, err
	}
	return Structured(joins), nil
}

func decodeOrders(raw json.RawMessage) (Variant[[]Order], error) {
	if s, ok := asString(raw); ok {
		return Raw[[]Order](s), nil
	}
	var orders []Order
	err := decodeObject(raw, func(column string, value json.RawMessage) error {
		// Non-string directions fall back to DESC like any other invalid value.
		direction, _ := asString(value)
		orders = append(orders, Order{Column: column, Direction: direction})
		return nil
	})
	if err != nil {
		return Variant[[]Order]{}, err
	}
	return Structured(orders), nil
}

func decodeLimit(raw json.RawMessage) (Variant[Limit], error) {
	if s, ok := asString(raw); ok {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return Structured(Count(ToInt(s))), nil
		}
		return Raw[Limit](s), nil
	}
	var value any
	if err := decodeValues(raw, &value); err != nil {
		return Variant[Limit]{}, err
	}
	if list, ok := value.([]any); ok {
		if len(list) == 0 {
			return Variant[Limit]{}, nil
		}
		normalizeNumbers(list)
	} else {
		value = normalizeNumber(value)
	}
	limit, err := LimitFromValue(value)
	if err != nil {
		return Variant[Limit]{}, err
	}
	return Structured(limit), nil
}

// decodeObject walks a JSON object in document order.
func decodeObject(raw json.RawMessage, fn func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an object or a string")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func decodeValues(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func normalizeNumbers(values []any) {
	for i, v := range values {
		values[i] = normalizeNumber(v)
	}
}

func normalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
