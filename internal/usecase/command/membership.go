package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// MembershipCommand identifies a user × recipe pair
type MembershipCommand struct {
	UserID   uint
	RecipeID uint
}

// MembershipHandler adds and removes rows of one relation (favorites or the shopping cart)
type MembershipHandler struct {
	relation domain.MembershipRepository
	recipes  domain.RecipeRepository
	events   domain.EventPublisher
}

// NewMembershipHandler creates a handler for the relation stored by relation
func NewMembershipHandler(relation domain.MembershipRepository, recipes domain.RecipeRepository, events domain.EventPublisher) *MembershipHandler {
	return &MembershipHandler{relation: relation, recipes: recipes, events: events}
}

// Kind returns the relation this handler manages
func (h *MembershipHandler) Kind() domain.MembershipKind {
	return h.relation.Kind()
}

// Add inserts the pair and returns the recipe in short form.
// The pre-check gives a friendly error; the unique index decides races.
func (h *MembershipHandler) Add(ctx context.Context, cmd MembershipCommand) (*domain.RecipeShort, error) {
	recipe, err := findRecipe(ctx, h.recipes, cmd.RecipeID)
	if err != nil {
		return nil, err
	}

	exists, err := h.relation.Exists(ctx, cmd.UserID, cmd.RecipeID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, h.conflict(cmd.RecipeID)
	}

	if err := h.relation.Add(ctx, cmd.UserID, cmd.RecipeID); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, h.conflict(cmd.RecipeID).WithCause(err)
		}
		return nil, storeError(err, fmt.Sprintf("recipe %d not found", cmd.RecipeID))
	}

	publish(ctx, h.events, domain.Event{
		Type:     domain.MembershipEventType(h.relation.Kind()),
		UserID:   cmd.UserID,
		RecipeID: recipe.ID,
		AuthorID: recipe.AuthorID,
	})

	short := domain.NewRecipeShort(*recipe)
	return &short, nil
}

// Remove deletes the pair. Removing an absent pair succeeds.
func (h *MembershipHandler) Remove(ctx context.Context, cmd MembershipCommand) error {
	if err := h.relation.Remove(ctx, cmd.UserID, cmd.RecipeID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (h *MembershipHandler) conflict(recipeID uint) *apperr.Error {
	if h.relation.Kind() == domain.KindShoppingCart {
		return apperr.Conflict(fmt.Sprintf("recipe %d is already in the shopping cart", recipeID))
	}
	return apperr.Conflict(fmt.Sprintf("recipe %d is already in favorites", recipeID))
}
