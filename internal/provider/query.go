package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
	"github.com/Lobco894/NotePad-new-master/internal/uri"
)

// Order is a sort column and direction.
type Order struct {
	Column string
	Desc   bool
}

// ParseOrder parses "column [ASC|DESC]". An empty string yields nil, which
// selects the table's default order.
func ParseOrder(s string) (*Order, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 0:
		return nil, nil
	case 1:
		return &Order{Column: fields[0]}, nil
	case 2:
		switch strings.ToUpper(fields[1]) {
		case "ASC":
			return &Order{Column: fields[0]}, nil
		case "DESC":
			return &Order{Column: fields[0], Desc: true}, nil
		}
	}
	return nil, fmt.Errorf("provider: sort order %q: %w", s, apperr.ErrInvalidColumn)
}

func (o Order) String() string {
	if o.Desc {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

// Query selects rows from the table an address resolves to.
type Query struct {
	// Projection lists the columns to return, in order. Empty means all columns.
	Projection []string
	Where      Predicate
	// Order defaults to modified DESC for notes and name ASC for categories.
	Order *Order
	// Limit caps the number of rows; zero means no limit.
	Limit int
}

// Query runs q against addr. An item address restricts the result to that row.
// The returned cursor reads lazily and sees the table as of the first read;
// later writes are only visible to a new Query.
func (s *Store) Query(ctx context.Context, addr uri.Address, q Query) (*Cursor, error) {
	res, err := s.resolve(addr)
	if err != nil {
		return nil, err
	}
	def := schema.Lookup(res.Table)

	cols, err := projection(def, q.Projection)
	if err != nil {
		return nil, err
	}

	where, args, err := s.selection(def, res, q.Where)
	if err != nil {
		return nil, err
	}

	order := Order{Column: def.DefaultSort, Desc: def.DefaultSortDesc}
	if q.Order != nil {
		order = *q.Order
	}
	if !def.HasColumn(order.Column) {
		return nil, fmt.Errorf("provider: sort column %q: %w", order.Column, apperr.ErrInvalidColumn)
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quote(c.Name)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(" FROM ")
	b.WriteString(string(def.Table))
	b.WriteString(where)
	b.WriteString(" ORDER BY ")
	b.WriteString(quote(order.Column))
	dir := " ASC"
	if order.Desc {
		dir = " DESC"
	}
	b.WriteString(dir)
	if order.Column != schema.ID {
		// Stable order for rows that tie on the sort column.
		b.WriteString(", " + quote(schema.ID) + dir)
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}

	rows, err := s.conn.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("provider: query %s: %w", def.Table, err)
	}
	return newCursor(rows, cols), nil
}

// projection resolves column names against def; empty means every column.
func projection(def *schema.Def, names []string) ([]schema.Column, error) {
	if len(names) == 0 {
		return def.Columns, nil
	}
	cols := make([]schema.Column, 0, len(names))
	for _, n := range names {
		c, ok := def.Column(n)
		if !ok {
			return nil, fmt.Errorf("provider: projection: no column %q in %s: %w", n, def.Table, apperr.ErrInvalidColumn)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// selection builds the WHERE clause for a resolved address and predicate.
func (s *Store) selection(def *schema.Def, res uri.Resolution, p Predicate) (string, []any, error) {
	if err := p.validate(def); err != nil {
		return "", nil, err
	}
	if res.HasRow {
		p = Eq(schema.ID, res.RowID).And(p)
	}
	if p.IsZero() {
		return "", nil, nil
	}
	return " WHERE " + p.expr, p.args, nil
}

func quote(name string) string {
	return `"` + name + `"`
}
