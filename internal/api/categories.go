package api

import (
	"net/http"
	"strconv"
	"strings"
)

// ListCategories handles GET /api/categories.
//
//	@Summary		List categories by name
//	@Tags			categories
//	@Produce		json
//	@Param			filter	query		string	false	"Name glob (e.g. \"w*\"); plain text matches substrings"
//	@Success		200		{object}	CategoryListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: cats})
}

// GetCategory handles GET /api/categories/{id}.
//
//	@Summary		Get a single category
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		int	true	"Category ID"
//	@Success		200	{object}	models.Category
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [get]
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	cat, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, "get category", err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// CreateCategory handles POST /api/categories.
//
//	@Summary		Create a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CategoryRequest	true	"Category to create"
//	@Success		201		{object}	models.Category
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories [post]
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	cat, err := h.svc.CreateCategory(r.Context(), req.Name, req.Color)
	if err != nil {
		writeError(w, "create category", err)
		return
	}
	w.Header().Set("Location", "/api/categories/"+strconv.FormatInt(cat.ID, 10))
	writeJSON(w, http.StatusCreated, cat)
}

// UpdateCategory handles PUT /api/categories/{id}.
//
//	@Summary		Rename or recolor a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Category ID"
//	@Param			body	body		CategoryRequest	true	"New name and/or color"
//	@Success		200		{object}	models.Category
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [put]
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cat, err := h.svc.UpdateCategory(r.Context(), id, req.Name, req.Color)
	if err != nil {
		writeError(w, "update category", err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// DeleteCategory handles DELETE /api/categories/{id}.
//
//	@Summary		Delete a category and clear it from its notes
//	@Tags			categories
//	@Param			id	path	int	true	"Category ID"
//	@Success		204	"Category deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories/{id} [delete]
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
