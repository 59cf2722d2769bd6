package statement

import (
	"fmt"
	"strings"
)

// Boolean connectors accepted in front of a condition.
const (
	ConnectorAnd = "AND"
	ConnectorOr  = "OR"
	ConnectorNot = "NOT"
)

// DefaultOperator is used when a condition leaves its operator empty.
const DefaultOperator = "="

// Condition is one WHERE predicate: Column Operator Value, optionally preceded by a
// boolean connector.
//
// An empty Operator means "=". Connector is matched case-insensitively against
// AND, OR and NOT; any other value is dropped and nothing is emitted in front of
// the condition. Conditions are joined with single spaces, so callers must supply
// connectors between consecutive conditions themselves.
type Condition struct {
	Column    string
	Operator  string
	Value     any
	Connector string
}

// Where returns an equality condition.
func Where(column string, value any) Condition {
	return Condition{Column: column, Value: value}
}

// WhereOp returns a condition with an explicit operator.
func WhereOp(column, operator string, value any) Condition {
	return Condition{Column: column, Operator: operator, Value: value}
}

// And returns a copy of c preceded by AND.
func (c Condition) And() Condition { return c.with(ConnectorAnd) }

// Or returns a copy of c preceded by OR.
func (c Condition) Or() Condition { return c.with(ConnectorOr) }

// Not returns a copy of c preceded by NOT.
func (c Condition) Not() Condition { return c.with(ConnectorNot) }

func (c Condition) with(connector string) Condition {
	c.Connector = connector
	return c
}

// Conditions collects conditions into a list, mostly for readability at call sites.
func Conditions(conds ...Condition) []Condition {
	return conds
}

// ConditionFromTuple converts the loose tuple form of a condition:
//
//	[column, value]
//	[column, operator, value]
//	[column, operator, value, connector]
//
// The column must be a string. A non-string operator is rendered with fmt; a
// non-string connector is dropped.
func ConditionFromTuple(tuple []any) (Condition, error) {
	if len(tuple) < 2 || len(tuple) > 4 {
		return Condition{}, fmt.Errorf("%w: expected 2 to 4 elements, got %d", ErrMalformedCondition, len(tuple))
	}
	column, ok := tuple[0].(string)
	if !ok {
		return Condition{}, fmt.Errorf("%w: column must be a string, got %T", ErrMalformedCondition, tuple[0])
	}

	if len(tuple) == 2 {
		return Where(column, tuple[1]), nil
	}

	cond := WhereOp(column, fmt.Sprint(tuple[1]), tuple[2])
	if len(tuple) == 4 {
		if connector, ok := tuple[3].(string); ok {
			cond.Connector = connector
		}
	}
	return cond, nil
}

// ConditionsFromTuples converts a list of tuples with ConditionFromTuple.
func ConditionsFromTuples(tuples [][]any) ([]Condition, error) {
	conds := make([]Condition, 0, len(tuples))
	for i, tuple := range tuples {
		cond, err := ConditionFromTuple(tuple)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// normalizeConnector upper-cases a connector and returns "" for anything outside
// AND, OR and NOT.
func normalizeConnector(connector string) string {
	switch c := strings.ToUpper(strings.TrimSpace(connector)); c {
	case ConnectorAnd, ConnectorOr, ConnectorNot:
		return c
	default:
		return ""
	}
}

// BuildWhere renders a condition list as "WHERE ..." with one placeholder per
// condition. Literal values only ever reach the bind map. An empty list yields an
// empty clause.
func BuildWhere(conds []Condition, p *Placeholders) Clause {
	if len(conds) == 0 {
		return Clause{}
	}

	tokens := []string{"WHERE"}
	binds := make(Binds, len(conds))
	for _, cond := range conds {
		name := p.Where(cond.Column)
		binds[name] = cond.Value

		if connector := normalizeConnector(cond.Connector); connector != "" {
			tokens = append(tokens, connector)
		}

		operator := cond.Operator
		if operator == "" {
			operator = DefaultOperator
		}
		tokens = append(tokens, Escape(cond.Column), operator, marker(name))
	}
	return Clause{SQL: strings.Join(tokens, " "), Binds: binds}
}
