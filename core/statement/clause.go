package statement

import "strings"

// Clause is one SQL fragment together with the bind values it references.
type Clause struct {
	SQL   string
	Binds Binds
}

// IsZero reports whether the clause contributes nothing to a statement.
func (c Clause) IsZero() bool {
	return strings.TrimSpace(c.SQL) == "" && len(c.Binds) == 0
}

// Clauses is an ordered list of fragments that is joined once, when the final
// statement text is assembled.
type Clauses []Clause

// Add appends c unless it is empty.
func (cs *Clauses) Add(c Clause) {
	if c.IsZero() {
		return
	}
	*cs = append(*cs, c)
}

// SQL joins the fragments with single spaces.
func (cs Clauses) SQL() string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		if sql := strings.TrimSpace(c.SQL); sql != "" {
			parts = append(parts, sql)
		}
	}
	return strings.Join(parts, " ")
}

// Binds merges the bind values of every fragment.
func (cs Clauses) Binds() Binds {
	binds := Binds{}
	for _, c := range cs {
		binds.Merge(c.Binds)
	}
	return binds
}

// Statement is a complete SQL statement ready to be prepared by a connector.
type Statement struct {
	SQL   string
	Binds Binds
}
