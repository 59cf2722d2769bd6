package statement

import (
	"fmt"
	"strings"
)

// Compiled is SQL text whose named placeholders were rewritten to positional "?"
// markers, along with the placeholder names in order of appearance.
type Compiled struct {
	SQL   string
	Names []string
}

// Compile rewrites ":name" placeholders to "?" for drivers without named
// parameter support. Text inside single quotes, double quotes and backticks is
// left alone, as is the "::" cast operator.
func Compile(sql string) Compiled {
	var (
		out   strings.Builder
		names []string
		quote byte
	)
	out.Grow(len(sql))

	for i := 0; i < len(sql); i++ {
		c := sql[i]

		if quote != 0 {
			out.WriteByte(c)
			switch {
			case c == '\\' && quote != '`' && i+1 < len(sql):
				i++
				out.WriteByte(sql[i])
			case c == quote:
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			out.WriteByte(c)
		case c == ':' && i+1 < len(sql) && sql[i+1] == ':':
			out.WriteString("::")
			i++
		case c == ':' && i+1 < len(sql) && isNameStart(sql[i+1]):
			end := i + 1
			for end < len(sql) && isNamePart(sql[end]) {
				end++
			}
			names = append(names, sql[i+1:end])
			out.WriteByte('?')
			i = end - 1
		default:
			out.WriteByte(c)
		}
	}
	return Compiled{SQL: out.String(), Names: names}
}

// Args returns the bind values in placeholder order. A name may appear several
// times and is bound each time.
func (c Compiled) Args(binds Binds) ([]any, error) {
	args := make([]any, 0, len(c.Names))
	for _, name := range c.Names {
		value, ok := binds[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingBind, marker(name))
		}
		args = append(args, value)
	}
	return args, nil
}

func isNameStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNamePart(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9'
}
