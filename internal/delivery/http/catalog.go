package http

import (
	"net/http"
)

// ListTags handles GET /api/tags/
// @Summary List tags
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Tag
// @Router /api/tags/ [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.queries.Catalog.ListTags(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orEmpty(tags))
}

// GetTag handles GET /api/tags/{id}/
// @Summary Get a tag
// @Tags Catalog
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} domain.Tag
// @Failure 404 {object} ErrorResponse
// @Router /api/tags/{id}/ [get]
func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	tag, err := h.queries.Catalog.GetTag(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

// ListIngredients handles GET /api/ingredients/
// @Summary List ingredients
// @Description Case-insensitive name prefix search. Not paginated.
// @Tags Catalog
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {array} domain.Ingredient
// @Router /api/ingredients/ [get]
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.queries.Catalog.ListIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orEmpty(ingredients))
}

// GetIngredient handles GET /api/ingredients/{id}/
// @Summary Get an ingredient
// @Tags Catalog
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} domain.Ingredient
// @Failure 404 {object} ErrorResponse
// @Router /api/ingredients/{id}/ [get]
func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	ingredient, err := h.queries.Catalog.GetIngredient(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ingredient)
}
