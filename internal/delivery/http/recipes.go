package http

import (
	"net/http"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/usecase/command"
	"github.com/vanchez121994/foodgram-project-react/internal/usecase/query"
)

// ShoppingListFilename is offered to the browser for the shopping list download
const ShoppingListFilename = "ingredients_to_buy.txt"

type recipeRequest struct {
	Ingredients []domain.IngredientLine `json:"ingredients"`
	Tags        []uint                  `json:"tags"`
	Image       string                  `json:"image"`
	Name        string                  `json:"name"`
	Text        string                  `json:"text"`
	CookingTime int                     `json:"cooking_time"`
}

// recipePatch keeps absent fields nil so they are left untouched
type recipePatch struct {
	Ingredients *[]domain.IngredientLine `json:"ingredients"`
	Tags        *[]uint                  `json:"tags"`
	Image       *string                  `json:"image"`
	Name        *string                  `json:"name"`
	Text        *string                  `json:"text"`
	CookingTime *int                     `json:"cooking_time"`
}

// ListRecipes handles GET /api/recipes/
// @Summary List recipes
// @Description Newest first. Filters combine; tags match any of the given slugs.
// @Tags Recipes
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param tags query []string false "Tag slugs" collectionFormat(multi)
// @Param author query int false "Author id"
// @Param is_favorited query int false "Only favorites (0 or 1)"
// @Param is_in_shopping_cart query int false "Only recipes in the cart (0 or 1)"
// @Success 200 {object} PaginatedResponse[domain.RecipeView]
// @Failure 400 {object} ErrorResponse
// @Router /api/recipes/ [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageSize.parsePage(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	q := r.URL.Query()
	listQuery := query.ListRecipesQuery{
		ViewerID: ViewerID(r.Context()),
		TagSlugs: q["tags"],
		Limit:    page.limit,
		Offset:   page.offset(),
	}
	if raw := q.Get("author"); raw != "" {
		if listQuery.AuthorID, err = query.ParseID("author", raw); err != nil {
			respondError(w, r, err)
			return
		}
	}
	if listQuery.FavoritedOnly, err = query.ParseFlag("is_favorited", q.Get("is_favorited")); err != nil {
		respondError(w, r, err)
		return
	}
	if listQuery.InCartOnly, err = query.ParseFlag("is_in_shopping_cart", q.Get("is_in_shopping_cart")); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.queries.ListRecipes.Handle(r.Context(), listQuery)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, paginate(r, page, result))
}

// GetRecipe handles GET /api/recipes/{id}/
// @Summary Get a recipe
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} domain.RecipeView
// @Failure 404 {object} ErrorResponse
// @Router /api/recipes/{id}/ [get]
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondRecipe(w, r, http.StatusOK, id)
}

// CreateRecipe handles POST /api/recipes/
// @Summary Create a recipe
// @Tags Recipes
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param request body recipeRequest true "Recipe"
// @Success 201 {object} domain.RecipeView
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/recipes/ [post]
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	recipe, err := h.commands.CreateRecipe.Handle(r.Context(), command.CreateRecipeCommand{
		AuthorID:    ViewerID(r.Context()),
		Name:        req.Name,
		Image:       req.Image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.metrics.recipesCreated.Inc()

	h.respondRecipe(w, r, http.StatusCreated, recipe.ID)
}

// UpdateRecipe handles PATCH /api/recipes/{id}/
// @Summary Update a recipe
// @Description Only supplied fields change. Supplied tags or ingredients replace the stored ones.
// @Tags Recipes
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body recipeRequest true "Changed fields"
// @Success 200 {object} domain.RecipeView
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/recipes/{id}/ [patch]
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req recipePatch
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	cmd := command.UpdateRecipeCommand{
		ActorID:     ViewerID(r.Context()),
		RecipeID:    id,
		Name:        req.Name,
		Image:       req.Image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if req.Tags != nil {
		cmd.TagIDs = append([]uint{}, *req.Tags...)
	}
	if req.Ingredients != nil {
		cmd.Ingredients = append([]domain.IngredientLine{}, *req.Ingredients...)
	}

	if err := h.commands.UpdateRecipe.Handle(r.Context(), cmd); err != nil {
		respondError(w, r, err)
		return
	}

	h.respondRecipe(w, r, http.StatusOK, id)
}

// DeleteRecipe handles DELETE /api/recipes/{id}/
// @Summary Delete a recipe
// @Tags Recipes
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/recipes/{id}/ [delete]
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.commands.DeleteRecipe.Handle(r.Context(), command.DeleteRecipeCommand{
		ActorID:  ViewerID(r.Context()),
		RecipeID: id,
	}); err != nil {
		respondError(w, r, err)
		return
	}
	h.metrics.recipesDeleted.Inc()

	respondNoContent(w)
}

func (h *Handler) respondRecipe(w http.ResponseWriter, r *http.Request, status int, id uint) {
	view, err := h.queries.GetRecipe.Handle(r.Context(), query.GetRecipeQuery{
		ViewerID: ViewerID(r.Context()),
		ID:       id,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, status, view)
}

// membershipAdd handles POST /api/recipes/{id}/favorite/ and /shopping_cart/
// @Summary Add a recipe to favorites or the shopping cart
// @Tags Recipes
// @Security TokenAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} domain.RecipeShort
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/recipes/{id}/favorite/ [post]
// @Router /api/recipes/{id}/shopping_cart/ [post]
func (h *Handler) membershipAdd(membership *command.MembershipHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, r, err)
			return
		}

		short, err := membership.Add(r.Context(), command.MembershipCommand{
			UserID:   ViewerID(r.Context()),
			RecipeID: id,
		})
		if err != nil {
			respondError(w, r, err)
			return
		}
		h.metrics.membershipChanged(membership.Kind(), "add")

		respondJSON(w, http.StatusCreated, short)
	}
}

// membershipRemove handles DELETE /api/recipes/{id}/favorite/ and /shopping_cart/
// @Summary Remove a recipe from favorites or the shopping cart
// @Tags Recipes
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Router /api/recipes/{id}/favorite/ [delete]
// @Router /api/recipes/{id}/shopping_cart/ [delete]
func (h *Handler) membershipRemove(membership *command.MembershipHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, r, err)
			return
		}

		if err := membership.Remove(r.Context(), command.MembershipCommand{
			UserID:   ViewerID(r.Context()),
			RecipeID: id,
		}); err != nil {
			respondError(w, r, err)
			return
		}
		h.metrics.membershipChanged(membership.Kind(), "remove")

		respondNoContent(w)
	}
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart/
// @Summary Download the aggregated shopping list
// @Tags Recipes
// @Security TokenAuth
// @Produce plain
// @Success 200 {string} string "Shopping list"
// @Router /api/recipes/download_shopping_cart/ [get]
func (h *Handler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	list, err := h.queries.ShoppingList.Handle(r.Context(), query.ShoppingListQuery{UserID: ViewerID(r.Context())})
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ShoppingListFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(list.Render()))
}
