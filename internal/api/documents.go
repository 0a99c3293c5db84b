package api

import (
	"net/http"

	"github.com/Lobco894/NotePad-new-master/internal/models"
)

// ListDocuments handles GET /api/documents.
//
//	@Summary		List importable documents
//	@Tags			documents
//	@Produce		json
//	@Param			dir	query		string	false	"Directory relative to the documents root"
//	@Success		200	{object}	DocumentListResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Documents(r.URL.Query().Get("dir"))
	if err != nil {
		writeError(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs})
}

// ImportDocuments handles POST /api/documents/import.
//
//	@Summary		Create notes from documents
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportRequest	true	"A single path or a directory"
//	@Success		201		{object}	ImportResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/import [post]
func (h *Handler) ImportDocuments(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Path != "" {
		note, err := h.svc.Import(r.Context(), req.Path)
		if err != nil {
			writeError(w, "import document", err)
			return
		}
		writeJSON(w, http.StatusCreated, note)
		return
	}
	notes, err := h.svc.ImportAll(r.Context(), req.Dir)
	if err != nil {
		writeError(w, "import documents", err)
		return
	}
	if len(notes) == 0 {
		writeJSON(w, http.StatusOK, ImportResponse{Notes: []models.Note{}})
		return
	}
	writeJSON(w, http.StatusCreated, ImportResponse{Notes: notes})
}

// ExportNote handles POST /api/notes/{id}/export.
//
//	@Summary		Write a note body to the documents directory
//	@Tags			documents
//	@Accept			json
//	@Param			id		path	int				true	"Note ID"
//	@Param			body	body	ExportRequest	true	"Destination path"
//	@Success		204		"Exported"
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/export [post]
func (h *Handler) ExportNote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req ExportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Export(r.Context(), id, req.Dest); err != nil {
		writeError(w, "export note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
