// Package clipboard provides the sources a paste session reads from.
package clipboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Lobco894/NotePad-new-master/internal/uri"
)

// ErrEmpty is returned by ReadItem when the source holds nothing.
var ErrEmpty = errors.New("clipboard: empty")

// Kind tells a note reference apart from opaque text.
type Kind int

// Item kinds.
const (
	KindPlainText Kind = iota
	KindNoteReference
)

func (k Kind) String() string {
	if k == KindNoteReference {
		return "note-reference"
	}
	return "plain-text"
}

// Item is one clipboard entry. For KindNoteReference, Ref holds the parsed
// address and Payload its string form; for KindPlainText, Payload is the text.
type Item struct {
	Kind    Kind
	Payload string
	Ref     uri.Address
}

// Source is a clipboard-like provider of items.
type Source interface {
	HasItem() bool
	ReadItem() (Item, error)
}

// Classify turns raw clipboard text into an Item. Text that parses as a note
// item address under r becomes a note reference; anything else is plain text.
func Classify(r *uri.Resolver, text string) Item {
	if r != nil {
		if addr, err := r.Parse(strings.TrimSpace(text)); err == nil && addr.Kind == uri.NotesItem {
			return Item{Kind: KindNoteReference, Payload: addr.String(), Ref: addr}
		}
	}
	return Item{Kind: KindPlainText, Payload: text}
}

// System reads the operating system clipboard.
type System struct {
	resolver *uri.Resolver
}

// NewSystem returns a System that recognizes note addresses under r.
func NewSystem(r *uri.Resolver) *System {
	return &System{resolver: r}
}

// HasItem reports whether the OS clipboard is readable and non-empty.
func (s *System) HasItem() bool {
	if clipboard.Unsupported {
		return false
	}
	text, err := clipboard.ReadAll()
	return err == nil && text != ""
}

// ReadItem reads the OS clipboard and classifies its text.
func (s *System) ReadItem() (Item, error) {
	if clipboard.Unsupported {
		return Item{}, fmt.Errorf("clipboard: no clipboard utility available: %w", ErrEmpty)
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return Item{}, fmt.Errorf("clipboard: read: %w", err)
	}
	if text == "" {
		return Item{}, ErrEmpty
	}
	return Classify(s.resolver, text), nil
}

// Static is a fixed in-memory source.
type Static struct {
	Items []Item
}

// Text returns a Static holding one plain-text item.
func Text(s string) *Static {
	return &Static{Items: []Item{{Kind: KindPlainText, Payload: s}}}
}

// Reference returns a Static holding a reference to addr.
func Reference(addr uri.Address) *Static {
	return &Static{Items: []Item{{Kind: KindNoteReference, Payload: addr.String(), Ref: addr}}}
}

// HasItem reports whether s holds at least one item.
func (s *Static) HasItem() bool { return len(s.Items) > 0 }

// ReadItem returns the first item.
func (s *Static) ReadItem() (Item, error) {
	if len(s.Items) == 0 {
		return Item{}, ErrEmpty
	}
	return s.Items[0], nil
}
