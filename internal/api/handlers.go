package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Lobco894/NotePad-new-master/internal/checksum"
	"github.com/Lobco894/NotePad-new-master/internal/noteservice"
	"github.com/Lobco894/NotePad-new-master/internal/session"
)

// Handler holds API route handlers.
type Handler struct {
	svc      *noteservice.Service
	sessions *session.Registry
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service, sessions *session.Registry) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// idParam parses the numeric {id} URL parameter. On failure it writes a 404,
// since a non-numeric segment never names a row.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return 0, false
	}
	return id, true
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes, newest first
//	@Tags			notes
//	@Produce		json
//	@Param			category	query		string	false	"Only notes in this category"
//	@Param			sort		query		string	false	"Column and direction, e.g. \"title ASC\""
//	@Param			limit		query		int		false	"Max results"
//	@Success		200			{object}	NoteListResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	items, err := h.svc.ListNotes(r.Context(), noteservice.ListOptions{
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		Limit:    limit,
	})
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: len(items)})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		int	true	"Note ID"
//	@Success		200	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	note, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	w.Header().Set("ETag", checksum.ETag(note.Checksum))
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NoteRequest	true	"Note to create"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := h.svc.CreateNote(r.Context(), noteservice.NoteInput(req))
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	w.Header().Set("Location", "/api/notes/"+strconv.FormatInt(note.ID, 10))
	w.Header().Set("ETag", checksum.ETag(note.Checksum))
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary		Update a note with optimistic concurrency
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id			path		int			true	"Note ID"
//	@Param			If-Match	header		string		false	"Body checksum from a previous read"
//	@Param			body		body		NoteRequest	true	"Fields to change"
//	@Success		200			{object}	models.Note
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == nil && req.Body == nil && req.Category == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("title, body or category is required"))
		return
	}
	note, err := h.svc.UpdateNote(r.Context(), id, noteservice.NoteInput(req), r.Header.Get("If-Match"))
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	w.Header().Set("ETag", checksum.ETag(note.Checksum))
	writeJSON(w, http.StatusOK, note)
}

// AssignCategory handles PUT /api/notes/{id}/category.
//
//	@Summary		Move a note into a category
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Note ID"
//	@Param			body	body		AssignCategoryRequest	true	"Category name; empty clears it"
//	@Success		200		{object}	models.Note
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/category [put]
func (h *Handler) AssignCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req AssignCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := h.svc.AssignCategory(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, "assign category", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	int	true	"Note ID"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
//
//	@Summary		Search notes
//	@Description	scope=title (default) matches a title fragment; scope=text matches every word against titles and bodies.
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Title fragment or words"
//	@Param			scope	query		string	false	"title or text"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Success		200		{object}	TextSearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "title":
		results, err := h.svc.Search(r.Context(), q, limit)
		if err != nil {
			writeError(w, "search", err)
			return
		}
		writeJSON(w, http.StatusOK, SearchResponse{Results: results})
	case "text":
		results, err := h.svc.SearchText(r.Context(), q, limit)
		if err != nil {
			writeError(w, "text search", err)
			return
		}
		writeJSON(w, http.StatusOK, TextSearchResponse{Results: results})
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("unknown scope "+strconv.Quote(scope)))
	}
}

// Type handles GET /api/type.
//
//	@Summary		Resolve the MIME type of a content address
//	@Tags			addressing
//	@Produce		json
//	@Param			uri	query		string	true	"content:// address"
//	@Success		200	{object}	TypeResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/type [get]
func (h *Handler) Type(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("uri")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'uri' is required"))
		return
	}
	addr, err := h.svc.Resolver().Parse(raw)
	if err != nil {
		writeError(w, "type", err)
		return
	}
	mime, err := h.svc.Store().Type(addr)
	if err != nil {
		writeError(w, "type", err)
		return
	}
	writeJSON(w, http.StatusOK, TypeResponse{URI: addr.String(), Type: mime})
}
