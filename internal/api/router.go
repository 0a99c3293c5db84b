package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lobco894/NotePad-new-master/internal/noteservice"
	"github.com/Lobco894/NotePad-new-master/internal/session"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, sessions *session.Registry, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, sessions)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes.
	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Get("/{id}", h.GetNote)
		r.Put("/{id}", h.UpdateNote)
		r.Delete("/{id}", h.DeleteNote)
		r.Put("/{id}/category", h.AssignCategory)
		r.Post("/{id}/export", h.ExportNote)
	})

	// Categories.
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Get("/{id}", h.GetCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})

	r.Get("/search", h.Search)
	r.Get("/type", h.Type)

	r.Get("/documents", h.ListDocuments)
	r.Post("/documents/import", h.ImportDocuments)

	// Edit sessions.
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.OpenSession)
		r.Get("/{sid}", h.GetSession)
		r.Patch("/{sid}", h.EditSession)
		r.Post("/{sid}/save", h.SaveSession)
		r.Post("/{sid}/close", h.CloseSession)
		r.Post("/{sid}/cancel", h.CancelSession)
		r.Post("/{sid}/delete", h.DeleteSession)
		r.Post("/{sid}/export", h.ExportSession)
	})

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
