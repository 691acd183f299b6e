package command

import (
	"context"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// DeleteRecipeCommand represents the command to delete a recipe
type DeleteRecipeCommand struct {
	ActorID  uint
	RecipeID uint
}

// DeleteRecipeHandler handles recipe deletion
type DeleteRecipeHandler struct {
	recipes domain.RecipeRepository
	images  domain.ImageStore
	events  domain.EventPublisher
}

// NewDeleteRecipeHandler creates a new delete recipe handler
func NewDeleteRecipeHandler(recipes domain.RecipeRepository, images domain.ImageStore, events domain.EventPublisher) *DeleteRecipeHandler {
	return &DeleteRecipeHandler{recipes: recipes, images: images, events: events}
}

// Handle deletes the recipe if the actor is its author
func (h *DeleteRecipeHandler) Handle(ctx context.Context, cmd DeleteRecipeCommand) error {
	recipe, err := findRecipe(ctx, h.recipes, cmd.RecipeID)
	if err != nil {
		return err
	}
	if err := requireAuthor(recipe, cmd.ActorID); err != nil {
		return err
	}

	if err := h.recipes.Delete(ctx, recipe.ID); err != nil {
		return storeError(err, "recipe not found")
	}
	if err := h.images.Remove(ctx, recipe.Image); err != nil {
		logger.Warn(ctx).Err(err).Str("image", recipe.Image).Msg("Failed to remove image")
	}

	logger.Info(ctx).Uint("recipe_id", recipe.ID).Msg("Recipe deleted")

	publish(ctx, h.events, domain.Event{
		Type:     domain.EventRecipeDeleted,
		UserID:   cmd.ActorID,
		RecipeID: recipe.ID,
		AuthorID: recipe.AuthorID,
	})
	return nil
}
