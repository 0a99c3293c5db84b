package provider

import (
	"database/sql"
	"fmt"

	"github.com/Lobco894/NotePad-new-master/internal/schema"
)

// Row is one result row keyed by column name. Integer columns hold int64,
// text columns hold string, NULL is nil.
type Row map[string]any

// Int64 returns the integer value of col, or 0.
func (r Row) Int64(col string) int64 {
	v, _ := r[col].(int64)
	return v
}

// Text returns the text value of col, or "".
func (r Row) Text(col string) string {
	v, _ := r[col].(string)
	return v
}

// IsNull reports whether col is absent or NULL.
func (r Row) IsNull(col string) bool {
	return r[col] == nil
}

// Cursor is a forward-only iterator over query results.
type Cursor struct {
	rows *sql.Rows
	cols []schema.Column
	dest []any
	row  Row
	err  error
}

func newCursor(rows *sql.Rows, cols []schema.Column) *Cursor {
	dest := make([]any, len(cols))
	for i, c := range cols {
		if c.Type == schema.Integer {
			dest[i] = new(sql.NullInt64)
		} else {
			dest[i] = new(sql.NullString)
		}
	}
	return &Cursor{rows: rows, cols: cols, dest: dest}
}

// Columns returns the projected column names in order.
func (c *Cursor) Columns() []string {
	out := make([]string, len(c.cols))
	for i, col := range c.cols {
		out[i] = col.Name
	}
	return out
}

// Next advances to the next row. It returns false at the end or on error.
func (c *Cursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	if err := c.rows.Scan(c.dest...); err != nil {
		c.err = fmt.Errorf("provider: scan: %w", err)
		return false
	}
	row := make(Row, len(c.cols))
	for i, col := range c.cols {
		switch v := c.dest[i].(type) {
		case *sql.NullInt64:
			if v.Valid {
				row[col.Name] = v.Int64
			} else {
				row[col.Name] = nil
			}
		case *sql.NullString:
			if v.Valid {
				row[col.Name] = v.String
			} else {
				row[col.Name] = nil
			}
		}
	}
	c.row = row
	return true
}

// Row returns the current row.
func (c *Cursor) Row() Row {
	return c.row
}

// Err returns the first error met while iterating.
func (c *Cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

// Close releases the cursor.
func (c *Cursor) Close() error {
	return c.rows.Close()
}

// All drains the cursor and closes it.
func (c *Cursor) All() ([]Row, error) {
	defer c.Close()
	var out []Row
	for c.Next() {
		out = append(out, c.row)
	}
	return out, c.Err()
}

// First returns the first row, if any, and closes the cursor.
func (c *Cursor) First() (Row, bool, error) {
	defer c.Close()
	if c.Next() {
		return c.row, true, nil
	}
	return nil, false, c.Err()
}
