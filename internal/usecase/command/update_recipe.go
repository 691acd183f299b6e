package command

import (
	"context"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// UpdateRecipeCommand represents a partial recipe update.
// Nil fields are left untouched; a non-nil collection replaces the stored one.
type UpdateRecipeCommand struct {
	ActorID     uint
	RecipeID    uint
	Name        *string
	Image       *string // data URI
	Text        *string
	CookingTime *int
	TagIDs      []uint
	Ingredients []domain.IngredientLine
}

// UpdateRecipeHandler handles recipe updates
type UpdateRecipeHandler struct {
	recipes domain.RecipeRepository
	checker recipeChecker
	images  domain.ImageStore
	events  domain.EventPublisher
}

// NewUpdateRecipeHandler creates a new update recipe handler
func NewUpdateRecipeHandler(
	recipes domain.RecipeRepository,
	tags domain.TagRepository,
	ingredients domain.IngredientRepository,
	images domain.ImageStore,
	events domain.EventPublisher,
) *UpdateRecipeHandler {
	return &UpdateRecipeHandler{
		recipes: recipes,
		checker: recipeChecker{tags: tags, ingredients: ingredients},
		images:  images,
		events:  events,
	}
}

// Handle checks authorship, validates supplied fields and applies them atomically
func (h *UpdateRecipeHandler) Handle(ctx context.Context, cmd UpdateRecipeCommand) error {
	recipe, err := findRecipe(ctx, h.recipes, cmd.RecipeID)
	if err != nil {
		return err
	}
	if err := requireAuthor(recipe, cmd.ActorID); err != nil {
		return err
	}

	if err := h.validate(ctx, cmd); err != nil {
		return err
	}

	changes := domain.RecipeChanges{
		Name:        cmd.Name,
		Description: cmd.Text,
		CookingTime: cmd.CookingTime,
		TagIDs:      cmd.TagIDs,
		Lines:       cmd.Ingredients,
	}

	var newImage string
	if cmd.Image != nil {
		if newImage, err = h.images.Save(ctx, *cmd.Image); err != nil {
			return err
		}
		changes.Image = &newImage
	}

	if err := h.recipes.Update(ctx, recipe.ID, changes); err != nil {
		if newImage != "" {
			h.removeImage(ctx, newImage)
		}
		return storeError(err, "recipe not found")
	}
	if newImage != "" {
		h.removeImage(ctx, recipe.Image)
	}

	logger.Info(ctx).Uint("recipe_id", recipe.ID).Msg("Recipe updated")

	publish(ctx, h.events, domain.Event{
		Type:     domain.EventRecipeUpdated,
		UserID:   cmd.ActorID,
		RecipeID: recipe.ID,
		AuthorID: recipe.AuthorID,
	})
	return nil
}

func (h *UpdateRecipeHandler) validate(ctx context.Context, cmd UpdateRecipeCommand) error {
	if cmd.Name != nil {
		if err := validateName(*cmd.Name); err != nil {
			return err
		}
	}
	if cmd.Text != nil {
		if err := validateText(*cmd.Text); err != nil {
			return err
		}
	}
	if cmd.CookingTime != nil {
		if err := validateCookingTime(*cmd.CookingTime); err != nil {
			return err
		}
	}
	if cmd.TagIDs != nil {
		if err := h.checker.validateTagIDs(ctx, cmd.TagIDs); err != nil {
			return err
		}
	}
	if cmd.Ingredients != nil {
		if err := h.checker.validateIngredientLines(ctx, cmd.Ingredients); err != nil {
			return err
		}
	}
	return nil
}

func (h *UpdateRecipeHandler) removeImage(ctx context.Context, ref string) {
	if err := h.images.Remove(ctx, ref); err != nil {
		logger.Warn(ctx).Err(err).Str("image", ref).Msg("Failed to remove image")
	}
}
