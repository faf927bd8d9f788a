package query

import (
	"fmt"
	"strings"

	"github.com/kbukum/rallykit/ref"
)

// Query is a WSAPI where clause. Leaves compare a field with a value;
// inner nodes join two clauses with AND or OR.
type Query struct {
	field    string
	operator string
	value    any

	left, right *Query
	join        string
}

// Where starts a clause comparing field with value using operator, e.g.
// Where("State", "=", "Open") or Where("Name", "contains", "login").
func Where(field, operator string, value any) *Query {
	return &Query{field: field, operator: operator, value: value}
}

// And joins q and other with AND.
func (q *Query) And(other *Query) *Query {
	return &Query{left: q, right: other, join: "AND"}
}

// Or joins q and other with OR.
func (q *Query) Or(other *Query) *Query {
	return &Query{left: q, right: other, join: "OR"}
}

// String renders the fully-parenthesized clause:
//
//	Where("Name", "contains", "foo").And(Where("State", "=", "Open"))
//	-> ((Name contains foo) AND (State = Open))
func (q *Query) String() string {
	if q == nil {
		return ""
	}
	if q.join != "" {
		return fmt.Sprintf("(%s %s %s)", q.left.String(), q.join, q.right.String())
	}
	return fmt.Sprintf("(%s %s %s)", q.field, q.operator, formatValue(q.value))
}

// formatValue renders a comparison operand. Strings containing spaces,
// quotes or parentheses are double-quoted.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return quote(val)
	case ref.Referencer:
		return val.RefPath()
	case fmt.Stringer:
		return quote(val.String())
	default:
		return fmt.Sprint(val)
	}
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\"()") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
