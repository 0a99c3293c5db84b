// Package models defines the transport types for notes and categories.
package models

import (
	"time"

	"github.com/Lobco894/NotePad-new-master/internal/checksum"
	"github.com/Lobco894/NotePad-new-master/internal/provider"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
)

// Note is one row of the notes table.
type Note struct {
	ID        int64     `json:"id"`
	URI       string    `json:"uri"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category,omitempty"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TextHit is a note found by body search with the matching excerpt.
type TextHit struct {
	Note
	Snippet string `json:"snippet"`
}

// Category is one row of the categories table.
type Category struct {
	ID    int64  `json:"id"`
	URI   string `json:"uri"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int64  `json:"count"`
}

// Document is a file in the documents directory.
type Document struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteFromRow converts a full notes row. uri is the item address.
func NoteFromRow(row provider.Row, uri string) Note {
	body := row.Text(schema.NoteBody)
	return Note{
		ID:        row.Int64(schema.ID),
		URI:       uri,
		Title:     row.Text(schema.NoteTitle),
		Body:      body,
		Category:  row.Text(schema.NoteCategory),
		Checksum:  checksum.Sum([]byte(body)),
		CreatedAt: time.UnixMilli(row.Int64(schema.NoteCreated)).UTC(),
		UpdatedAt: time.UnixMilli(row.Int64(schema.NoteModified)).UTC(),
	}
}

// CategoryFromRow converts a full categories row.
func CategoryFromRow(row provider.Row, uri string) Category {
	return Category{
		ID:    row.Int64(schema.ID),
		URI:   uri,
		Name:  row.Text(schema.CategoryName),
		Color: row.Text(schema.CategoryColor),
		Count: row.Int64(schema.CategoryCount),
	}
}
