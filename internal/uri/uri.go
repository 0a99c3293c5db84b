// Package uri resolves note store addresses of the form
// content://{authority}/notes[/{id}] and content://{authority}/categories[/{id}]
// into a table, an optional row id and a MIME type.
package uri

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
)

// Scheme is the only accepted address scheme.
const Scheme = "content"

// DefaultAuthority is the authority used when none is configured.
const DefaultAuthority = "com.google.provider.NotePad"

// MIME types per address shape.
const (
	NoteDirType      = "vnd.android.cursor.dir/vnd.google.note"
	NoteItemType     = "vnd.android.cursor.item/vnd.google.note"
	CategoryDirType  = "vnd.android.cursor.dir/vnd.google.category"
	CategoryItemType = "vnd.android.cursor.item/vnd.google.category"
)

// Kind tags the shape of an Address.
type Kind int

// Address shapes. The zero Kind is never produced by the resolver.
const (
	Invalid Kind = iota
	NotesCollection
	NotesItem
	CategoriesCollection
	CategoriesItem
)

func (k Kind) String() string {
	switch k {
	case NotesCollection:
		return "notes"
	case NotesItem:
		return "note"
	case CategoriesCollection:
		return "categories"
	case CategoriesItem:
		return "category"
	}
	return "invalid"
}

// Address is a resolved collection or item address.
type Address struct {
	Authority string
	Kind      Kind
	ID        int64
}

// Resolution is what an address refers to.
type Resolution struct {
	Table    schema.Table
	RowID    int64
	HasRow   bool
	MIMEType string
}

// Resolve maps a to its table, row id and MIME type. It performs no I/O.
func (a Address) Resolve() (Resolution, error) {
	switch a.Kind {
	case NotesCollection:
		return Resolution{Table: schema.Notes, MIMEType: NoteDirType}, nil
	case NotesItem:
		if a.ID <= 0 {
			break
		}
		return Resolution{Table: schema.Notes, RowID: a.ID, HasRow: true, MIMEType: NoteItemType}, nil
	case CategoriesCollection:
		return Resolution{Table: schema.Categories, MIMEType: CategoryDirType}, nil
	case CategoriesItem:
		if a.ID <= 0 {
			break
		}
		return Resolution{Table: schema.Categories, RowID: a.ID, HasRow: true, MIMEType: CategoryItemType}, nil
	}
	return Resolution{}, fmt.Errorf("uri: %s: %w", a, apperr.ErrUnsupportedAddress)
}

// IsItem reports whether a addresses a single row.
func (a Address) IsItem() bool {
	return a.Kind == NotesItem || a.Kind == CategoriesItem
}

// Collection returns the collection address a belongs to.
func (a Address) Collection() Address {
	switch a.Kind {
	case NotesItem:
		return Address{Authority: a.Authority, Kind: NotesCollection}
	case CategoriesItem:
		return Address{Authority: a.Authority, Kind: CategoriesCollection}
	}
	return Address{Authority: a.Authority, Kind: a.Kind}
}

// WithID appends id to a collection address.
func (a Address) WithID(id int64) (Address, error) {
	if id <= 0 {
		return Address{}, fmt.Errorf("uri: row id %d: %w", id, apperr.ErrUnsupportedAddress)
	}
	switch a.Kind {
	case NotesCollection:
		return Address{Authority: a.Authority, Kind: NotesItem, ID: id}, nil
	case CategoriesCollection:
		return Address{Authority: a.Authority, Kind: CategoriesItem, ID: id}, nil
	}
	return Address{}, fmt.Errorf("uri: append id to %s: %w", a, apperr.ErrUnsupportedAddress)
}

func (a Address) String() string {
	var path string
	switch a.Kind {
	case NotesCollection, NotesItem:
		path = string(schema.Notes)
	case CategoriesCollection, CategoriesItem:
		path = string(schema.Categories)
	default:
		return "invalid:"
	}
	s := Scheme + "://" + a.Authority + "/" + path
	if a.IsItem() {
		s += "/" + strconv.FormatInt(a.ID, 10)
	}
	return s
}

// Resolver parses raw addresses for a single authority.
type Resolver struct {
	authority string
}

// NewResolver returns a Resolver bound to authority, or DefaultAuthority when empty.
func NewResolver(authority string) *Resolver {
	if authority == "" {
		authority = DefaultAuthority
	}
	return &Resolver{authority: authority}
}

// Authority returns the authority this resolver accepts.
func (r *Resolver) Authority() string { return r.authority }

// Notes returns the notes collection address.
func (r *Resolver) Notes() Address {
	return Address{Authority: r.authority, Kind: NotesCollection}
}

// Categories returns the categories collection address.
func (r *Resolver) Categories() Address {
	return Address{Authority: r.authority, Kind: CategoriesCollection}
}

// Note returns the item address of note id.
func (r *Resolver) Note(id int64) (Address, error) {
	return r.Notes().WithID(id)
}

// Category returns the item address of category id.
func (r *Resolver) Category(id int64) (Address, error) {
	return r.Categories().WithID(id)
}

// Parse turns raw into an Address. Anything that is not one of the four
// known shapes under this resolver's authority fails with ErrUnsupportedAddress.
func (r *Resolver) Parse(raw string) (Address, error) {
	unsupported := fmt.Errorf("uri: %q: %w", raw, apperr.ErrUnsupportedAddress)

	u, err := url.Parse(raw)
	if err != nil {
		return Address{}, unsupported
	}
	if u.Scheme != Scheme || u.Host != r.authority || u.User != nil ||
		u.RawQuery != "" || u.Fragment != "" || u.Opaque != "" {
		return Address{}, unsupported
	}

	segs := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	var coll Address
	switch segs[0] {
	case string(schema.Notes):
		coll = r.Notes()
	case string(schema.Categories):
		coll = r.Categories()
	default:
		return Address{}, unsupported
	}

	switch len(segs) {
	case 1:
		return coll, nil
	case 2:
		id, ok := parseID(segs[1])
		if !ok {
			return Address{}, unsupported
		}
		return coll.WithID(id)
	}
	return Address{}, unsupported
}

// Resolve parses raw and resolves it in one step.
func (r *Resolver) Resolve(raw string) (Resolution, error) {
	a, err := r.Parse(raw)
	if err != nil {
		return Resolution{}, err
	}
	return a.Resolve()
}

// parseID accepts plain positive decimal ids only.
func parseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
