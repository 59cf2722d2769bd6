package statement

import (
	"maps"
	"strconv"
	"strings"
)

// Placeholder prefixes for the three kinds of bind values a statement can carry.
const (
	DataPrefix  = "d_"
	WherePrefix = "w_"
	LimitPrefix = "l_"
)

// Binds maps a placeholder name (without the leading ':') to the value the driver
// substitutes for it at execution time.
type Binds map[string]any

// Merge copies every entry of other into b and returns b. A nil receiver is
// allocated on demand.
func (b Binds) Merge(other Binds) Binds {
	if b == nil {
		b = make(Binds, len(other))
	}
	maps.Copy(b, other)
	return b
}

// Placeholders hands out bind placeholder names that are unique within a single
// statement. A fresh value must be used for every statement; the zero value is
// ready to use.
//
// Where placeholders carry a monotonic counter so the same column can appear in
// several conditions, and repeated builds of the same input yield the same text.
type Placeholders struct {
	seq  int
	used map[string]struct{}
}

// NewPlaceholders returns an empty placeholder scope.
func NewPlaceholders() *Placeholders {
	return &Placeholders{}
}

// Data returns the placeholder name for a column of an INSERT or UPDATE payload.
func (p *Placeholders) Data(column string) string {
	base := DataPrefix + bindSafe(column)
	name := base
	for p.taken(name) {
		name = base + "_" + strconv.Itoa(p.next())
	}
	p.claim(name)
	return name
}

// Where returns the placeholder name for one WHERE condition on column.
func (p *Placeholders) Where(column string) string {
	name := WherePrefix + bindSafe(column) + "_" + strconv.Itoa(p.next())
	p.claim(name)
	return name
}

// Limit returns the fixed start and offset placeholder names of a LIMIT clause.
func (p *Placeholders) Limit() (start, offset string) {
	start, offset = LimitPrefix+"start", LimitPrefix+"offset"
	p.claim(start)
	p.claim(offset)
	return start, offset
}

func (p *Placeholders) next() int {
	p.seq++
	return p.seq
}

func (p *Placeholders) taken(name string) bool {
	_, ok := p.used[name]
	return ok
}

func (p *Placeholders) claim(name string) {
	if p.used == nil {
		p.used = make(map[string]struct{})
	}
	p.used[name] = struct{}{}
}

// bindSafe reduces a column token to characters a driver accepts inside a named
// parameter.
func bindSafe(column string) string {
	column = strings.Trim(column, identifierCutset)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, column)
}

// marker renders a placeholder name as it appears in SQL text.
func marker(name string) string {
	return ":" + name
}
