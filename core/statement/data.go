package statement

import (
	"slices"
	"strings"
)

// Column pairs a generated data placeholder with the escaped column it fills.
type Column struct {
	Placeholder string
	Name        string
}

// BindData turns a column-value payload into the column list of an INSERT or
// UPDATE and a bind map keyed by the generated placeholders. Columns are visited
// in sorted order so the output is deterministic. The input map is not modified.
func BindData(data map[string]any, p *Placeholders) ([]Column, Binds) {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	columns := make([]Column, 0, len(keys))
	binds := make(Binds, len(keys))
	for _, key := range keys {
		name := p.Data(key)
		columns = append(columns, Column{Placeholder: name, Name: Escape(key)})
		binds[name] = data[key]
	}
	return columns, binds
}

// columnList renders "(a, b)" and "(:d_a, :d_b)" for an INSERT.
func columnList(columns []Column) (names, values string) {
	n := make([]string, 0, len(columns))
	v := make([]string, 0, len(columns))
	for _, c := range columns {
		n = append(n, c.Name)
		v = append(v, marker(c.Placeholder))
	}
	return strings.Join(n, ", "), strings.Join(v, ", ")
}

// setList renders "a = :d_a, b = :d_b" for an UPDATE.
func setList(columns []Column) string {
	set := make([]string, 0, len(columns))
	for _, c := range columns {
		set = append(set, c.Name+" = "+marker(c.Placeholder))
	}
	return strings.Join(set, ", ")
}
