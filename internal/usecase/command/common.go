package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// publish sends an event after a committed write. Failures are only logged.
func publish(ctx context.Context, events domain.EventPublisher, event domain.Event) {
	if events == nil {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = time.Now().UTC()

	if err := events.Publish(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", event.Type).
			Uint("recipe_id", event.RecipeID).
			Msg("Failed to publish event")
	}
}

// storeError converts a repository error into the apperr taxonomy.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, domain.ErrDuplicate):
		return apperr.Conflict("already exists").WithCause(err)
	default:
		return apperr.Internal(err)
	}
}

// findRecipe loads a recipe, mapping a missing row to NotFound.
func findRecipe(ctx context.Context, recipes domain.RecipeRepository, id uint) (*domain.Recipe, error) {
	recipe, err := recipes.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("recipe %d not found", id))
	}
	return recipe, nil
}

// requireAuthor allows only the recipe's author to change it.
func requireAuthor(recipe *domain.Recipe, actorID uint) error {
	if recipe.AuthorID != actorID {
		return apperr.Forbidden("only the author can change this recipe")
	}
	return nil
}
