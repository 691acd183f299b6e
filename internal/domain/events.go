package domain

import (
	"context"
	"time"
)

// Event types
const (
	EventRecipeCreated    = "recipe.created"
	EventRecipeUpdated    = "recipe.updated"
	EventRecipeDeleted    = "recipe.deleted"
	EventRecipeFavorited  = "recipe.favorited"
	EventRecipeCarted     = "recipe.carted"
	EventAuthorSubscribed = "author.subscribed"
)

// Event is published after a write has been committed.
type Event struct {
	ID         string    `json:"event_id"`
	Type       string    `json:"event_type"`
	UserID     uint      `json:"user_id"`
	RecipeID   uint      `json:"recipe_id,omitempty"`
	AuthorID   uint      `json:"author_id,omitempty"`
	OccurredAt time.Time `json:"timestamp"`
}

// EventPublisher delivers domain events. Implementations must not block the
// caller for long: a publish failure never rolls back the committed write.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// MembershipEventType returns the event emitted when a recipe joins a relation.
func MembershipEventType(kind MembershipKind) string {
	if kind == KindShoppingCart {
		return EventRecipeCarted
	}
	return EventRecipeFavorited
}
