// Package schema defines the fixed tables of the note store: notes and categories.
package schema

// Table names a table of the store.
type Table string

// Tables.
const (
	Notes      Table = "notes"
	Categories Table = "categories"
)

// Type is the storage class of a column.
type Type int

// Column storage classes.
const (
	Integer Type = iota
	Text
)

// Column names shared by both tables.
const ID = "_id"

// Note columns.
const (
	NoteTitle    = "title"
	NoteBody     = "note"
	NoteCreated  = "created"
	NoteModified = "modified"
	NoteCategory = "category"
)

// Category columns.
const (
	CategoryName  = "name"
	CategoryColor = "color"
	CategoryCount = "count"
)

// DefaultColor is stored for categories created without a color.
const DefaultColor = "#FFFFFF"

// Column describes one column of a table.
type Column struct {
	Name     string
	Type     Type
	Nullable bool
}

// Def is the definition of a table.
type Def struct {
	Table   Table
	Columns []Column

	// DefaultSort is applied when a query carries no sort order.
	DefaultSort     string
	DefaultSortDesc bool
}

var notesDef = &Def{
	Table: Notes,
	Columns: []Column{
		{Name: ID, Type: Integer},
		{Name: NoteTitle, Type: Text},
		{Name: NoteBody, Type: Text},
		{Name: NoteCreated, Type: Integer},
		{Name: NoteModified, Type: Integer},
		{Name: NoteCategory, Type: Text, Nullable: true},
	},
	DefaultSort:     NoteModified,
	DefaultSortDesc: true,
}

var categoriesDef = &Def{
	Table: Categories,
	Columns: []Column{
		{Name: ID, Type: Integer},
		{Name: CategoryName, Type: Text},
		{Name: CategoryColor, Type: Text},
		{Name: CategoryCount, Type: Integer},
	},
	DefaultSort: CategoryName,
}

// Lookup returns the definition of t, or nil if t is not a known table.
func Lookup(t Table) *Def {
	switch t {
	case Notes:
		return notesDef
	case Categories:
		return categoriesDef
	}
	return nil
}

// Column returns the named column.
func (d *Def) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether name is a column of d.
func (d *Def) HasColumn(name string) bool {
	_, ok := d.Column(name)
	return ok
}

// ColumnNames returns every column name in declaration order.
func (d *Def) ColumnNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}
