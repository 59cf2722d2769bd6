package statement

import (
	"fmt"
	"strings"
)

// variantKind tags which side of a Variant is populated.
type variantKind uint8

const (
	variantUnset variantKind = iota
	variantStructured
	variantRaw
)

// Variant holds one option key in either its structured form or as a raw, trusted
// SQL fragment. The zero value is unset.
type Variant[T any] struct {
	kind  variantKind
	value T
	raw   string
}

// Structured wraps a structured option value.
func Structured[T any](value T) Variant[T] {
	return Variant[T]{kind: variantStructured, value: value}
}

// Raw wraps a raw SQL fragment. The fragment is emitted verbatim (behind the
// clause keyword) and must never contain untrusted input.
func Raw[T any](sql string) Variant[T] {
	return Variant[T]{kind: variantRaw, raw: sql}
}

// IsSet reports whether either form is populated.
func (v Variant[T]) IsSet() bool { return v.kind != variantUnset }

// Value returns the structured value and whether the variant holds one.
func (v Variant[T]) Value() (T, bool) { return v.value, v.kind == variantStructured }

// RawSQL returns the raw fragment and whether the variant holds one.
func (v Variant[T]) RawSQL() (string, bool) { return v.raw, v.kind == variantRaw }

// Join types accepted by a Join.
const (
	JoinInner = "INNER"
	JoinLeft  = "LEFT"
	JoinRight = "RIGHT"
)

// Join describes "<Type> JOIN <Table> ON <Left> <Operator> <Right>". Left and
// Right are emitted as written. Operator defaults to "=" and Type to INNER; an
// unrecognized Type is coerced to INNER.
type Join struct {
	Table    string
	Left     string
	Operator string
	Right    string
	Type     string
}

// JoinFromTuple converts the loose tuple form of a join on table:
//
//	[left, right]
//	[left, operator, right]
//	[left, operator, right, type]
func JoinFromTuple(table string, tuple []any) (Join, error) {
	j := Join{Table: table}
	switch len(tuple) {
	case 2:
		j.Left, j.Right = fmt.Sprint(tuple[0]), fmt.Sprint(tuple[1])
	case 3, 4:
		j.Left, j.Operator, j.Right = fmt.Sprint(tuple[0]), fmt.Sprint(tuple[1]), fmt.Sprint(tuple[2])
		if len(tuple) == 4 {
			j.Type, _ = tuple[3].(string)
		}
	default:
		return Join{}, fmt.Errorf("%w: join on %q expects 2 to 4 elements, got %d", ErrMalformedCondition, table, len(tuple))
	}
	return j, nil
}

func (j Join) sql() string {
	joinType := strings.ToUpper(strings.TrimSpace(j.Type))
	switch joinType {
	case JoinInner, JoinLeft, JoinRight:
	default:
		joinType = JoinInner
	}
	operator := j.Operator
	if operator == "" {
		operator = DefaultOperator
	}
	return joinType + " JOIN " + Escape(j.Table) + " ON " + j.Left + " " + operator + " " + j.Right
}

// Sort directions accepted by an Order.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// Order sorts by Column. Direction is matched case-insensitively against ASC and
// DESC and defaults to DESC otherwise.
type Order struct {
	Column    string
	Direction string
}

func (o Order) sql() string {
	direction := strings.ToUpper(strings.TrimSpace(o.Direction))
	if direction != Asc {
		direction = Desc
	}
	return Escape(o.Column) + " " + direction
}

// Limit restricts a result to Count rows starting at Offset.
type Limit struct {
	Offset int
	Count  int
}

// Count returns a Limit of n rows from the first row.
func Count(n int) Limit {
	return Limit{Count: n}
}

// LimitFromValue coerces the loose forms of a limit: a number or numeric string is
// a count, a one-element list is a count, and a two-element list is
// [offset, count]. Values are coerced to integers the way a loose integer cast
// would, so unparseable input becomes 0.
func LimitFromValue(v any) (Limit, error) {
	switch val := v.(type) {
	case []any:
		switch len(val) {
		case 1:
			return Count(ToInt(val[0])), nil
		case 2:
			return Limit{Offset: ToInt(val[0]), Count: ToInt(val[1])}, nil
		default:
			return Limit{}, fmt.Errorf("%w: limit expects 1 or 2 elements, got %d", ErrMalformedCondition, len(val))
		}
	case []int:
		return LimitFromValue(intsToAny(val))
	default:
		return Count(ToInt(val)), nil
	}
}

func intsToAny(ints []int) []any {
	out := make([]any, len(ints))
	for i, n := range ints {
		out[i] = n
	}
	return out
}

// Options describes the auxiliary clauses of a SELECT. Every key is optional and
// accepts either a structured value or a raw SQL fragment.
type Options struct {
	Field Variant[[]string]
	Join  Variant[[]Join]
	Where Variant[[]Condition]
	Order Variant[[]Order]
	Group Variant[[]string]
	Limit Variant[Limit]
}

// Composition is the result of composing Options: the projection and the clauses
// that follow "FROM <table>", in order.
type Composition struct {
	Field   string
	Clauses Clauses
}

// Binds returns the bind values of every composed clause.
func (c Composition) Binds() Binds {
	return c.Clauses.Binds()
}

// Compose renders every populated option key. Clauses come out in the fixed
// order join, where, order, group, limit.
func Compose(opts Options, p *Placeholders) Composition {
	var clauses Clauses
	clauses.Add(composeJoin(opts.Join))
	clauses.Add(composeWhere(opts.Where, p))
	clauses.Add(composeOrder(opts.Order))
	clauses.Add(composeGroup(opts.Group))
	clauses.Add(composeLimit(opts.Limit, p))
	return Composition{
		Field:   composeField(opts.Field),
		Clauses: clauses,
	}
}

func composeField(v Variant[[]string]) string {
	if fields, ok := v.Value(); ok && len(fields) > 0 {
		return strings.Join(escapeAll(fields), ", ")
	}
	if raw, ok := v.RawSQL(); ok && strings.TrimSpace(raw) != "" {
		return raw
	}
	return "*"
}

func composeJoin(v Variant[[]Join]) Clause {
	if joins, ok := v.Value(); ok && len(joins) > 0 {
		parts := make([]string, 0, len(joins))
		for _, j := range joins {
			parts = append(parts, j.sql())
		}
		return Clause{SQL: strings.Join(parts, " ")}
	}
	if raw, ok := v.RawSQL(); ok && raw != "" {
		if strings.Contains(strings.ToUpper(raw), "JOIN") {
			return Clause{SQL: raw}
		}
		return Clause{SQL: "INNER JOIN " + raw}
	}
	return Clause{}
}

func composeWhere(v Variant[[]Condition], p *Placeholders) Clause {
	if conds, ok := v.Value(); ok {
		return BuildWhere(conds, p)
	}
	if raw, ok := v.RawSQL(); ok && raw != "" {
		return Clause{SQL: "WHERE " + raw}
	}
	return Clause{}
}

func composeOrder(v Variant[[]Order]) Clause {
	if orders, ok := v.Value(); ok && len(orders) > 0 {
		parts := make([]string, 0, len(orders))
		for _, o := range orders {
			parts = append(parts, o.sql())
		}
		return Clause{SQL: "ORDER BY " + strings.Join(parts, ", ")}
	}
	if raw, ok := v.RawSQL(); ok && raw != "" {
		return Clause{SQL: "ORDER BY " + raw}
	}
	return Clause{}
}

func composeGroup(v Variant[[]string]) Clause {
	if columns, ok := v.Value(); ok && len(columns) > 0 {
		return Clause{SQL: "GROUP BY " + strings.Join(escapeAll(columns), ", ")}
	}
	if raw, ok := v.RawSQL(); ok && raw != "" {
		return Clause{SQL: "GROUP BY " + raw}
	}
	return Clause{}
}

func composeLimit(v Variant[Limit], p *Placeholders) Clause {
	if limit, ok := v.Value(); ok {
		start, offset := p.Limit()
		return Clause{
			SQL:   "LIMIT " + marker(start) + ", " + marker(offset),
			Binds: Binds{start: limit.Offset, offset: limit.Count},
		}
	}
	if raw, ok := v.RawSQL(); ok && raw != "" {
		return Clause{SQL: "LIMIT " + raw}
	}
	return Clause{}
}
