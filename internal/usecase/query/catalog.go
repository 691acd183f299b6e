package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// CatalogHandler serves tags and ingredients
type CatalogHandler struct {
	tags        domain.TagRepository
	ingredients domain.IngredientRepository
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(tags domain.TagRepository, ingredients domain.IngredientRepository) *CatalogHandler {
	return &CatalogHandler{tags: tags, ingredients: ingredients}
}

// ListTags returns every tag
func (h *CatalogHandler) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := h.tags.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tags, nil
}

// GetTag returns one tag
func (h *CatalogHandler) GetTag(ctx context.Context, id uint) (*domain.Tag, error) {
	tag, err := h.tags.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("tag %d not found", id))
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tag, nil
}

// ListIngredients returns ingredients whose name starts with namePrefix, ignoring case
func (h *CatalogHandler) ListIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	ingredients, err := h.ingredients.FindAll(ctx, strings.TrimSpace(namePrefix))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return ingredients, nil
}

// GetIngredient returns one ingredient
func (h *CatalogHandler) GetIngredient(ctx context.Context, id uint) (*domain.Ingredient, error) {
	ingredient, err := h.ingredients.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("ingredient %d not found", id))
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return ingredient, nil
}
