package api

import (
	"github.com/Lobco894/NotePad-new-master/internal/models"
)

// NoteRequest is the request body for creating or updating a note.
// Omitted fields keep their current value on update.
type NoteRequest struct {
	Title    *string `json:"title,omitempty" example:"Groceries"`
	Body     *string `json:"body,omitempty" example:"Buy milk"`
	Category *string `json:"category,omitempty" example:"home"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps title search results.
type SearchResponse struct {
	Results []models.Note `json:"results" validate:"required"`
}

// TextSearchResponse wraps full-text search results.
type TextSearchResponse struct {
	Results []models.TextHit `json:"results" validate:"required"`
}

// CategoryRequest is the request body for creating or updating a category.
type CategoryRequest struct {
	Name  string `json:"name" example:"Work"`
	Color string `json:"color,omitempty" example:"#FF8800"`
}

// AssignCategoryRequest moves a note into a category; an empty name clears it.
type AssignCategoryRequest struct {
	Name string `json:"name" example:"Work"`
}

// CategoryListResponse wraps category listings.
type CategoryListResponse struct {
	Categories []models.Category `json:"categories" validate:"required"`
}

// TypeResponse is the MIME type of an address.
type TypeResponse struct {
	URI  string `json:"uri" example:"content://com.google.provider.NotePad/notes/1"`
	Type string `json:"type" example:"vnd.android.cursor.item/vnd.google.note"`
}

// ExportRequest names the destination of an export inside the documents directory.
type ExportRequest struct {
	Dest string `json:"dest" example:"exports/groceries.txt" validate:"required"`
}

// ImportRequest imports one document (Path) or every document under Dir.
type ImportRequest struct {
	Path string `json:"path,omitempty" example:"inbox/groceries.md"`
	Dir  string `json:"dir,omitempty" example:"inbox"`
}

// ImportResponse lists the notes created by an import.
type ImportResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
}

// DocumentListResponse wraps the documents directory listing.
type DocumentListResponse struct {
	Documents []models.Document `json:"documents" validate:"required"`
}

// Session modes accepted by OpenSessionRequest.
const (
	SessionModeEdit   = "edit"
	SessionModeInsert = "insert"
	SessionModePaste  = "paste"
)

// OpenSessionRequest opens an edit session. Edit needs NoteID; paste takes
// either Text or a note Ref address.
type OpenSessionRequest struct {
	Mode   string `json:"mode" example:"edit" validate:"required"`
	NoteID int64  `json:"note_id,omitempty" example:"1"`
	Text   string `json:"text,omitempty" example:"pasted text"`
	Ref    string `json:"ref,omitempty" example:"content://com.google.provider.NotePad/notes/1"`
}

// SessionEditRequest changes the in-memory title and/or body of a session.
type SessionEditRequest struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// SessionResponse describes an open (or just closed) session.
type SessionResponse struct {
	ID              string `json:"id" example:"5f0c6c1e-4c55-4a47-9f55-2f1b6b2f9a10"`
	URI             string `json:"uri" example:"content://com.google.provider.NotePad/notes/1"`
	State           string `json:"state" example:"EDIT"`
	Title           string `json:"title"`
	Body            string `json:"body"`
	OriginalContent string `json:"original_content"`
	Modified        bool   `json:"modified"`
	Closed          bool   `json:"closed"`
}
