package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// GetRecipeQuery represents the query to read one recipe
type GetRecipeQuery struct {
	ViewerID uint
	ID       uint
}

// GetRecipeHandler handles single recipe reads
type GetRecipeHandler struct {
	recipes domain.RecipeRepository
	views   *RecipeViewBuilder
}

// NewGetRecipeHandler creates a new get recipe handler
func NewGetRecipeHandler(recipes domain.RecipeRepository, views *RecipeViewBuilder) *GetRecipeHandler {
	return &GetRecipeHandler{recipes: recipes, views: views}
}

// Handle executes the get recipe query
func (h *GetRecipeHandler) Handle(ctx context.Context, q GetRecipeQuery) (*domain.RecipeView, error) {
	recipe, err := h.recipes.FindByID(ctx, q.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("recipe %d not found", q.ID))
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	views, err := h.views.Build(ctx, q.ViewerID, []domain.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListRecipesQuery represents the recipe listing with its filters
type ListRecipesQuery struct {
	ViewerID      uint
	TagSlugs      []string
	AuthorID      uint
	FavoritedOnly bool
	InCartOnly    bool
	Limit         int
	Offset        int
}

// ListRecipesHandler handles recipe listings
type ListRecipesHandler struct {
	recipes domain.RecipeRepository
	tags    domain.TagRepository
	views   *RecipeViewBuilder
}

// NewListRecipesHandler creates a new list recipes handler
func NewListRecipesHandler(recipes domain.RecipeRepository, tags domain.TagRepository, views *RecipeViewBuilder) *ListRecipesHandler {
	return &ListRecipesHandler{recipes: recipes, tags: tags, views: views}
}

// Handle executes the list recipes query.
// Viewer-relative filters requested by an anonymous caller match nothing.
// Unknown tag slugs are a validation error.
func (h *ListRecipesHandler) Handle(ctx context.Context, q ListRecipesQuery) (*Page[domain.RecipeView], error) {
	if err := h.checkTagSlugs(ctx, q.TagSlugs); err != nil {
		return nil, err
	}
	if q.ViewerID == 0 && (q.FavoritedOnly || q.InCartOnly) {
		return &Page[domain.RecipeView]{Items: []domain.RecipeView{}}, nil
	}

	filter := domain.RecipeFilter{TagSlugs: q.TagSlugs, AuthorID: q.AuthorID}
	if q.FavoritedOnly {
		filter.FavoritedBy = q.ViewerID
	}
	if q.InCartOnly {
		filter.InCartOf = q.ViewerID
	}

	recipes, total, err := h.recipes.FindAll(ctx, filter, q.Limit, q.Offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views, err := h.views.Build(ctx, q.ViewerID, recipes)
	if err != nil {
		return nil, err
	}
	return &Page[domain.RecipeView]{Items: views, Total: total}, nil
}

func (h *ListRecipesHandler) checkTagSlugs(ctx context.Context, slugs []string) error {
	if len(slugs) == 0 {
		return nil
	}
	tags, err := h.tags.FindBySlugs(ctx, slugs)
	if err != nil {
		return apperr.Internal(err)
	}
	known := make(map[string]bool, len(tags))
	for _, t := range tags {
		known[t.Slug] = true
	}
	for _, slug := range slugs {
		if !known[slug] {
			return apperr.FieldValidation("tags", fmt.Sprintf("unknown tag %q", slug))
		}
	}
	return nil
}

// ShoppingListQuery represents the aggregated cart of a user
type ShoppingListQuery struct {
	UserID uint
}

// ShoppingListHandler aggregates shopping lists
type ShoppingListHandler struct {
	recipes domain.RecipeRepository
}

// NewShoppingListHandler creates a new shopping list handler
func NewShoppingListHandler(recipes domain.RecipeRepository) *ShoppingListHandler {
	return &ShoppingListHandler{recipes: recipes}
}

// Handle sums the ingredient lines of the user's cart
func (h *ShoppingListHandler) Handle(ctx context.Context, q ShoppingListQuery) (*domain.ShoppingList, error) {
	lines, err := h.recipes.ShoppingList(ctx, q.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &domain.ShoppingList{Lines: lines}, nil
}
