package command

import (
	"context"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// CreateRecipeCommand represents the command to publish a new recipe
type CreateRecipeCommand struct {
	AuthorID    uint
	Name        string
	Image       string // data URI
	Text        string
	CookingTime int
	TagIDs      []uint
	Ingredients []domain.IngredientLine
}

// CreateRecipeHandler handles recipe creation
type CreateRecipeHandler struct {
	recipes domain.RecipeRepository
	checker recipeChecker
	images  domain.ImageStore
	events  domain.EventPublisher
}

// NewCreateRecipeHandler creates a new create recipe handler
func NewCreateRecipeHandler(
	recipes domain.RecipeRepository,
	tags domain.TagRepository,
	ingredients domain.IngredientRepository,
	images domain.ImageStore,
	events domain.EventPublisher,
) *CreateRecipeHandler {
	return &CreateRecipeHandler{
		recipes: recipes,
		checker: recipeChecker{tags: tags, ingredients: ingredients},
		images:  images,
		events:  events,
	}
}

// Handle validates the input, stores the image and writes the aggregate in one transaction
func (h *CreateRecipeHandler) Handle(ctx context.Context, cmd CreateRecipeCommand) (*domain.Recipe, error) {
	if cmd.AuthorID == 0 {
		return nil, apperr.Unauthorized("authentication required")
	}
	if err := validateName(cmd.Name); err != nil {
		return nil, err
	}
	if err := validateText(cmd.Text); err != nil {
		return nil, err
	}
	if err := validateCookingTime(cmd.CookingTime); err != nil {
		return nil, err
	}
	if cmd.Image == "" {
		return nil, apperr.FieldValidation("image", "is required")
	}
	if err := h.checker.validateTagIDs(ctx, cmd.TagIDs); err != nil {
		return nil, err
	}
	if err := h.checker.validateIngredientLines(ctx, cmd.Ingredients); err != nil {
		return nil, err
	}

	imageRef, err := h.images.Save(ctx, cmd.Image)
	if err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		AuthorID:    cmd.AuthorID,
		Name:        cmd.Name,
		Image:       imageRef,
		Description: cmd.Text,
		CookingTime: cmd.CookingTime,
	}
	if err := h.recipes.Create(ctx, recipe, cmd.TagIDs, cmd.Ingredients); err != nil {
		h.discardImage(ctx, imageRef)
		return nil, storeError(err, "referenced tag or ingredient not found")
	}

	logger.Info(ctx).
		Uint("recipe_id", recipe.ID).
		Uint("author_id", recipe.AuthorID).
		Msg("Recipe created")

	publish(ctx, h.events, domain.Event{
		Type:     domain.EventRecipeCreated,
		UserID:   cmd.AuthorID,
		RecipeID: recipe.ID,
		AuthorID: cmd.AuthorID,
	})
	return recipe, nil
}

func (h *CreateRecipeHandler) discardImage(ctx context.Context, ref string) {
	if err := h.images.Remove(ctx, ref); err != nil {
		logger.Warn(ctx).Err(err).Str("image", ref).Msg("Failed to remove orphaned image")
	}
}
