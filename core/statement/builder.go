package statement

import "slices"

// QueryBuilder provides a fluent API for assembling select Options. Structured
// and raw forms can be mixed across keys, but each key holds one form: the last
// call for a key wins when forms are switched.
type QueryBuilder struct {
	fields []string
	joins  []Join
	where  []Condition
	orders []Order
	groups []string
	limit  *Limit

	raw map[string]string
}

// NewQueryBuilder creates a new, empty query builder instance.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Build returns the constructed Options.
func (qb *QueryBuilder) Build() Options {
	var opts Options
	switch {
	case len(qb.fields) > 0:
		opts.Field = Structured(slices.Clone(qb.fields))
	case qb.raw["field"] != "":
		opts.Field = Raw[[]string](qb.raw["field"])
	}
	switch {
	case len(qb.joins) > 0:
		opts.Join = Structured(slices.Clone(qb.joins))
	case qb.raw["join"] != "":
		opts.Join = Raw[[]Join](qb.raw["join"])
	}
	switch {
	case len(qb.where) > 0:
		opts.Where = Structured(slices.Clone(qb.where))
	case qb.raw["where"] != "":
		opts.Where = Raw[[]Condition](qb.raw["where"])
	}
	switch {
	case len(qb.orders) > 0:
		opts.Order = Structured(slices.Clone(qb.orders))
	case qb.raw["order"] != "":
		opts.Order = Raw[[]Order](qb.raw["order"])
	}
	switch {
	case len(qb.groups) > 0:
		opts.Group = Structured(slices.Clone(qb.groups))
	case qb.raw["group"] != "":
		opts.Group = Raw[[]string](qb.raw["group"])
	}
	switch {
	case qb.limit != nil:
		opts.Limit = Structured(*qb.limit)
	case qb.raw["limit"] != "":
		opts.Limit = Raw[Limit](qb.raw["limit"])
	}
	return opts
}

// Clone creates a copy of the builder so a derived query can be built without
// modifying the original.
func (qb *QueryBuilder) Clone() *QueryBuilder {
	clone := &QueryBuilder{
		fields: slices.Clone(qb.fields),
		joins:  slices.Clone(qb.joins),
		where:  slices.Clone(qb.where),
		orders: slices.Clone(qb.orders),
		groups: slices.Clone(qb.groups),
	}
	if qb.limit != nil {
		limit := *qb.limit
		clone.limit = &limit
	}
	if qb.raw != nil {
		clone.raw = make(map[string]string, len(qb.raw))
		for k, v := range qb.raw {
			clone.raw[k] = v
		}
	}
	return clone
}

// Reset clears all configuration from the builder.
func (qb *QueryBuilder) Reset() *QueryBuilder {
	*qb = QueryBuilder{}
	return qb
}

func (qb *QueryBuilder) setRaw(key, sql string) {
	if qb.raw == nil {
		qb.raw = make(map[string]string)
	}
	qb.raw[key] = sql
}

// Fields sets the projected columns.
func (qb *QueryBuilder) Fields(columns ...string) *QueryBuilder {
	qb.fields = append(qb.fields, columns...)
	return qb
}

// RawFields sets the projection to a raw fragment such as "COUNT(*) AS total".
func (qb *QueryBuilder) RawFields(sql string) *QueryBuilder {
	qb.fields = nil
	qb.setRaw("field", sql)
	return qb
}

// Join adds an INNER JOIN of table on left = right.
func (qb *QueryBuilder) Join(table, left, right string) *QueryBuilder {
	return qb.JoinOn(JoinInner, table, left, DefaultOperator, right)
}

// LeftJoin adds a LEFT JOIN of table on left = right.
func (qb *QueryBuilder) LeftJoin(table, left, right string) *QueryBuilder {
	return qb.JoinOn(JoinLeft, table, left, DefaultOperator, right)
}

// RightJoin adds a RIGHT JOIN of table on left = right.
func (qb *QueryBuilder) RightJoin(table, left, right string) *QueryBuilder {
	return qb.JoinOn(JoinRight, table, left, DefaultOperator, right)
}

// JoinOn adds a join with an explicit type and operator.
func (qb *QueryBuilder) JoinOn(joinType, table, left, operator, right string) *QueryBuilder {
	qb.joins = append(qb.joins, Join{Table: table, Left: left, Operator: operator, Right: right, Type: joinType})
	return qb
}

// RawJoin sets the join clause to a raw fragment.
func (qb *QueryBuilder) RawJoin(sql string) *QueryBuilder {
	qb.joins = nil
	qb.setRaw("join", sql)
	return qb
}

// Where starts the first condition on column.
func (qb *QueryBuilder) Where(column string) *FilterBuilder {
	return &FilterBuilder{parent: qb, column: column}
}

// And starts a condition on column preceded by AND.
func (qb *QueryBuilder) And(column string) *FilterBuilder {
	return &FilterBuilder{parent: qb, column: column, connector: ConnectorAnd}
}

// Or starts a condition on column preceded by OR.
func (qb *QueryBuilder) Or(column string) *FilterBuilder {
	return &FilterBuilder{parent: qb, column: column, connector: ConnectorOr}
}

// Not starts a condition on column preceded by NOT. Use it for the first
// condition; between conditions an AND or OR is still required.
func (qb *QueryBuilder) Not(column string) *FilterBuilder {
	return &FilterBuilder{parent: qb, column: column, connector: ConnectorNot}
}

// RawWhere sets the where clause to a raw fragment.
func (qb *QueryBuilder) RawWhere(sql string) *QueryBuilder {
	qb.where = nil
	qb.setRaw("where", sql)
	return qb
}

// OrderByAsc adds an ascending sort on column.
func (qb *QueryBuilder) OrderByAsc(column string) *QueryBuilder {
	qb.orders = append(qb.orders, Order{Column: column, Direction: Asc})
	return qb
}

// OrderByDesc adds a descending sort on column.
func (qb *QueryBuilder) OrderByDesc(column string) *QueryBuilder {
	qb.orders = append(qb.orders, Order{Column: column, Direction: Desc})
	return qb
}

// RawOrder sets the order clause to a raw fragment.
func (qb *QueryBuilder) RawOrder(sql string) *QueryBuilder {
	qb.orders = nil
	qb.setRaw("order", sql)
	return qb
}

// GroupBy adds grouping columns.
func (qb *QueryBuilder) GroupBy(columns ...string) *QueryBuilder {
	qb.groups = append(qb.groups, columns...)
	return qb
}

// RawGroup sets the group clause to a raw fragment.
func (qb *QueryBuilder) RawGroup(sql string) *QueryBuilder {
	qb.groups = nil
	qb.setRaw("group", sql)
	return qb
}

// Limit sets the maximum number of rows. It keeps any offset already set.
func (qb *QueryBuilder) Limit(count int) *QueryBuilder {
	if qb.limit == nil {
		qb.limit = &Limit{}
	}
	qb.limit.Count = count
	return qb
}

// Offset sets the number of rows to skip.
func (qb *QueryBuilder) Offset(offset int) *QueryBuilder {
	if qb.limit == nil {
		qb.limit = &Limit{}
	}
	qb.limit.Offset = offset
	return qb
}

// RawLimit sets the limit clause to a raw fragment.
func (qb *QueryBuilder) RawLimit(sql string) *QueryBuilder {
	qb.limit = nil
	qb.setRaw("limit", sql)
	return qb
}

// FilterBuilder completes one condition started by Where, And, Or or Not.
type FilterBuilder struct {
	parent    *QueryBuilder
	column    string
	connector string
}

// Eq adds "column = value".
func (fb *FilterBuilder) Eq(value any) *QueryBuilder { return fb.Op("=", value) }

// Neq adds "column != value".
func (fb *FilterBuilder) Neq(value any) *QueryBuilder { return fb.Op("!=", value) }

// Lt adds "column < value".
func (fb *FilterBuilder) Lt(value any) *QueryBuilder { return fb.Op("<", value) }

// Lte adds "column <= value".
func (fb *FilterBuilder) Lte(value any) *QueryBuilder { return fb.Op("<=", value) }

// Gt adds "column > value".
func (fb *FilterBuilder) Gt(value any) *QueryBuilder { return fb.Op(">", value) }

// Gte adds "column >= value".
func (fb *FilterBuilder) Gte(value any) *QueryBuilder { return fb.Op(">=", value) }

// Like adds "column LIKE pattern".
func (fb *FilterBuilder) Like(pattern string) *QueryBuilder { return fb.Op("LIKE", pattern) }

// NotLike adds "column NOT LIKE pattern".
func (fb *FilterBuilder) NotLike(pattern string) *QueryBuilder { return fb.Op("NOT LIKE", pattern) }

// Op adds a condition with an arbitrary operator. The operator is emitted as
// written.
func (fb *FilterBuilder) Op(operator string, value any) *QueryBuilder {
	qb := fb.parent
	qb.where = append(qb.where, Condition{
		Column:    fb.column,
		Operator:  operator,
		Value:     value,
		Connector: fb.connector,
	})
	delete(qb.raw, "where")
	return qb
}
