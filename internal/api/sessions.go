package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lobco894/NotePad-new-master/internal/clipboard"
	"github.com/Lobco894/NotePad-new-master/internal/session"
)

func sessionResponse(id string, s *session.Session) SessionResponse {
	return SessionResponse{
		ID:              id,
		URI:             s.URI().String(),
		State:           s.State().String(),
		Title:           s.Title(),
		Body:            s.Body(),
		OriginalContent: s.OriginalContent(),
		Modified:        s.Modified(),
		Closed:          s.Closed(),
	}
}

// lookupSession resolves the {sid} URL parameter; unknown and closed
// sessions are reported as 404.
func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request) (string, *session.Session, bool) {
	sid := chi.URLParam(r, "sid")
	s, err := h.sessions.Get(sid)
	if err != nil {
		writeError(w, "get session", err)
		return "", nil, false
	}
	return sid, s, true
}

// OpenSession handles POST /api/sessions.
//
//	@Summary		Open an edit session
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenSessionRequest	true	"Mode and its arguments"
//	@Success		201		{object}	SessionResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions [post]
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var (
		s   *session.Session
		err error
	)
	switch req.Mode {
	case SessionModeEdit:
		s, err = h.svc.OpenEdit(r.Context(), req.NoteID)
	case SessionModeInsert:
		s, err = h.svc.OpenInsert(r.Context())
	case SessionModePaste:
		src, ok := h.pasteSource(w, req)
		if !ok {
			return
		}
		s, err = h.svc.OpenPaste(r.Context(), src)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("mode must be edit, insert or paste"))
		return
	}
	if err != nil {
		writeError(w, "open session", err)
		return
	}
	id := h.sessions.Add(s)
	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(w, http.StatusCreated, sessionResponse(id, s))
}

// pasteSource builds the clipboard a paste session reads: a note reference
// when Ref is set, otherwise the text (which may itself be an address).
func (h *Handler) pasteSource(w http.ResponseWriter, req OpenSessionRequest) (clipboard.Source, bool) {
	if req.Ref != "" {
		addr, err := h.svc.Resolver().Parse(req.Ref)
		if err != nil {
			writeError(w, "open session", err)
			return nil, false
		}
		return clipboard.Reference(addr), true
	}
	if req.Text == "" {
		return &clipboard.Static{}, true
	}
	item := clipboard.Classify(h.svc.Resolver(), req.Text)
	return &clipboard.Static{Items: []clipboard.Item{item}}, true
}

// GetSession handles GET /api/sessions/{sid}.
//
//	@Summary		Get an open session
//	@Tags			sessions
//	@Produce		json
//	@Param			sid	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{sid} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sid, s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sid, s))
}

// EditSession handles PATCH /api/sessions/{sid}.
//
//	@Summary		Change the in-memory title or body of a session
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			sid		path		string				true	"Session ID"
//	@Param			body	body		SessionEditRequest	true	"New title and/or body"
//	@Success		200		{object}	SessionResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{sid} [patch]
func (h *Handler) EditSession(w http.ResponseWriter, r *http.Request) {
	sid, s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req SessionEditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title != nil {
		if err := s.SetTitle(*req.Title); err != nil {
			writeError(w, "edit session", err)
			return
		}
	}
	if req.Body != nil {
		if err := s.SetBody(*req.Body); err != nil {
			writeError(w, "edit session", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, sessionResponse(sid, s))
}

// sessionAction runs one lifecycle step and answers with the session state.
// Steps that end the session drop it from the registry.
func (h *Handler) sessionAction(op string, step func(*session.Session, context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, s, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		if err := step(s, r.Context()); err != nil {
			writeError(w, op, err)
			return
		}
		if s.Closed() {
			h.sessions.Remove(sid)
		}
		writeJSON(w, http.StatusOK, sessionResponse(sid, s))
	}
}

// SaveSession handles POST /api/sessions/{sid}/save.
//
//	@Summary		Write the session to the store and keep it open
//	@Tags			sessions
//	@Produce		json
//	@Param			sid	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{sid}/save [post]
func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	h.sessionAction("save session", (*session.Session).Save)(w, r)
}

// CloseSession handles POST /api/sessions/{sid}/close.
//
//	@Summary		Close a session; an empty note is deleted, otherwise saved
//	@Tags			sessions
//	@Produce		json
//	@Param			sid	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{sid}/close [post]
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.sessionAction("close session", (*session.Session).Close)(w, r)
}

// CancelSession handles POST /api/sessions/{sid}/cancel.
//
//	@Summary		Discard session edits
//	@Tags			sessions
//	@Produce		json
//	@Param			sid	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{sid}/cancel [post]
func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	h.sessionAction("cancel session", (*session.Session).Cancel)(w, r)
}

// DeleteSession handles POST /api/sessions/{sid}/delete.
//
//	@Summary		Delete the session's note
//	@Tags			sessions
//	@Produce		json
//	@Param			sid	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{sid}/delete [post]
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessionAction("delete session", (*session.Session).Delete)(w, r)
}

// ExportSession handles POST /api/sessions/{sid}/export.
//
//	@Summary		Write the session body to the documents directory
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			sid		path		string			true	"Session ID"
//	@Param			body	body		ExportRequest	true	"Destination path"
//	@Success		200		{object}	SessionResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sessions/{sid}/export [post]
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	sid, s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req ExportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.ExportSession(r.Context(), s, req.Dest); err != nil {
		writeError(w, "export session", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sid, s))
}
