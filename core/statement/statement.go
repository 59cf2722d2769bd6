package statement

import (
	"fmt"
	"slices"
	"strings"
)

// Insert builds "INSERT INTO <table> (<columns>) VALUES(<placeholders>)".
func Insert(table string, data map[string]any) (Statement, error) {
	if len(data) == 0 {
		return Statement{}, fmt.Errorf("insert into %s: %w", table, ErrEmptyPayload)
	}

	columns, binds := BindData(data, NewPlaceholders())
	names, values := columnList(columns)

	sql := "INSERT INTO " + Escape(table) + " (" + names + ") VALUES(" + values + ")"
	return Statement{SQL: sql, Binds: binds}, nil
}

// Update builds "UPDATE <table> SET <col> = :d_<col>, ... WHERE ...". An empty
// condition list produces an UPDATE without a WHERE clause.
func Update(table string, data map[string]any, where []Condition) (Statement, error) {
	if len(data) == 0 {
		return Statement{}, fmt.Errorf("update %s: %w", table, ErrEmptyPayload)
	}

	p := NewPlaceholders()
	columns, binds := BindData(data, p)

	clauses := Clauses{{SQL: "UPDATE " + Escape(table) + " SET " + setList(columns), Binds: binds}}
	clauses.Add(BuildWhere(where, p))

	return Statement{SQL: clauses.SQL(), Binds: clauses.Binds()}, nil
}

// Select builds "SELECT <field> FROM <table>" followed by the composed option
// clauses.
func Select(table string, opts Options) Statement {
	composition := Compose(opts, NewPlaceholders())

	clauses := Clauses{{SQL: "SELECT " + composition.Field + " FROM " + Escape(table)}}
	clauses = append(clauses, composition.Clauses...)

	return Statement{SQL: clauses.SQL(), Binds: clauses.Binds()}
}

// Delete builds "DELETE FROM <table> WHERE ...". It refuses to build an
// unconditional delete.
func Delete(table string, where []Condition) (Statement, error) {
	if len(where) == 0 {
		return Statement{}, fmt.Errorf("delete from %s: %w", table, ErrMissingPredicate)
	}

	clauses := Clauses{{SQL: "DELETE FROM " + Escape(table)}}
	clauses.Add(BuildWhere(where, NewPlaceholders()))

	return Statement{SQL: clauses.SQL(), Binds: clauses.Binds()}, nil
}

// String renders the statement for logs: the SQL text followed by its bind names.
func (s Statement) String() string {
	if len(s.Binds) == 0 {
		return s.SQL
	}
	names := make([]string, 0, len(s.Binds))
	for name := range s.Binds {
		names = append(names, marker(name))
	}
	slices.Sort(names)
	return s.SQL + " [" + strings.Join(names, " ") + "]"
}
