package provider

import (
	"fmt"
	"strings"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
)

// Predicate is a parameterized boolean expression over a table's columns.
// Placeholders (?) are bound positionally from Args. The zero Predicate
// matches every row.
type Predicate struct {
	expr string
	args []any
}

// Where builds a predicate from a raw expression such as "title LIKE ?".
// Identifiers are checked against the table schema when the predicate is used.
func Where(expr string, args ...any) Predicate {
	return Predicate{expr: strings.TrimSpace(expr), args: args}
}

// Eq matches rows whose column equals value.
func Eq(column string, value any) Predicate {
	return Where(column+" = ?", value)
}

// Contains matches rows whose column contains fragment anywhere, ignoring
// case in any script. LIKE wildcards in fragment are matched literally.
func Contains(column, fragment string) Predicate {
	return Where("casefold("+column+`) LIKE ? ESCAPE '\'`, "%"+escapeLike(casefold(fragment))+"%")
}

// And combines p and q; a zero operand is dropped.
func (p Predicate) And(q Predicate) Predicate {
	switch {
	case p.IsZero():
		return q
	case q.IsZero():
		return p
	}
	args := make([]any, 0, len(p.args)+len(q.args))
	args = append(args, p.args...)
	args = append(args, q.args...)
	return Predicate{expr: "(" + p.expr + ") AND (" + q.expr + ")", args: args}
}

// IsZero reports whether p has no expression.
func (p Predicate) IsZero() bool { return p.expr == "" }

// Expr returns the raw expression.
func (p Predicate) Expr() string { return p.expr }

// Args returns the bound arguments.
func (p Predicate) Args() []any { return p.args }

func (p Predicate) String() string {
	return fmt.Sprintf("%s %v", p.expr, p.args)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// predicateWords are the SQL words a predicate may use besides column names.
var predicateWords = map[string]struct{}{
	"AND": {}, "OR": {}, "NOT": {}, "LIKE": {}, "GLOB": {}, "IS": {}, "NULL": {},
	"IN": {}, "BETWEEN": {}, "ESCAPE": {}, "COLLATE": {}, "NOCASE": {},
	"TRUE": {}, "FALSE": {}, "LOWER": {}, "UPPER": {}, "LENGTH": {}, "TRIM": {},
	"INSTR": {}, "SUBSTR": {}, "CASEFOLD": {},
}

// validate checks every identifier in p against def and that the number of
// placeholders matches the bound arguments. Statement separators and comments
// are rejected.
func (p Predicate) validate(def *schema.Def) error {
	if p.IsZero() {
		if len(p.args) > 0 {
			return fmt.Errorf("provider: predicate: %d args without expression: %w", len(p.args), apperr.ErrInvalidColumn)
		}
		return nil
	}

	invalid := func(format string, a ...any) error {
		return fmt.Errorf("provider: predicate %q: %s: %w", p.expr, fmt.Sprintf(format, a...), apperr.ErrInvalidColumn)
	}

	s := p.expr
	placeholders := 0
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '\'':
			j := i + 1
			for {
				if j >= len(s) {
					return invalid("unterminated string literal")
				}
				if s[j] == '\'' {
					if j+1 < len(s) && s[j+1] == '\'' {
						j += 2
						continue
					}
					break
				}
				j++
			}
			i = j + 1

		case c == '"':
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				return invalid("unterminated identifier")
			}
			name := s[i+1 : i+1+end]
			if !def.HasColumn(name) {
				return invalid("no column %q in %s", name, def.Table)
			}
			i += end + 2

		case isIdentStart(c):
			j := i
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			word := s[i:j]
			if _, ok := predicateWords[strings.ToUpper(word)]; !ok && !def.HasColumn(word) {
				return invalid("no column %q in %s", word, def.Table)
			}
			i = j

		case c >= '0' && c <= '9':
			for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
				i++
			}

		case c == '?':
			placeholders++
			i++

		case c == '-' && i+1 < len(s) && s[i+1] == '-',
			c == '/' && i+1 < len(s) && s[i+1] == '*':
			return invalid("comments are not allowed")

		case strings.IndexByte("=<>!(),+-*/%|", c) >= 0:
			i++

		default:
			return invalid("unexpected %q", c)
		}
	}

	if placeholders != len(p.args) {
		return invalid("%d placeholders, %d args", placeholders, len(p.args))
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
