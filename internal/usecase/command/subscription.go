package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// SubscribeCommand represents a follow request
type SubscribeCommand struct {
	SubscriberID uint
	AuthorID     uint
}

// SubscribeHandler handles follow requests
type SubscribeHandler struct {
	users         domain.UserRepository
	subscriptions domain.SubscriptionRepository
	events        domain.EventPublisher
}

// NewSubscribeHandler creates a new subscribe handler
func NewSubscribeHandler(users domain.UserRepository, subscriptions domain.SubscriptionRepository, events domain.EventPublisher) *SubscribeHandler {
	return &SubscribeHandler{users: users, subscriptions: subscriptions, events: events}
}

// Handle creates the follow and returns the followed author
func (h *SubscribeHandler) Handle(ctx context.Context, cmd SubscribeCommand) (*domain.User, error) {
	author, err := h.users.FindByID(ctx, cmd.AuthorID)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("user %d not found", cmd.AuthorID))
	}
	if cmd.SubscriberID == cmd.AuthorID {
		return nil, apperr.Validation("you cannot subscribe to yourself")
	}

	exists, err := h.subscriptions.Exists(ctx, cmd.SubscriberID, cmd.AuthorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, apperr.Conflict("already subscribed to " + author.Username)
	}

	sub := &domain.Subscription{SubscriberID: cmd.SubscriberID, AuthorID: cmd.AuthorID}
	if err := h.subscriptions.Create(ctx, sub); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.Conflict("already subscribed to " + author.Username).WithCause(err)
		}
		return nil, apperr.Internal(err)
	}

	logger.Info(ctx).
		Uint("subscriber_id", cmd.SubscriberID).
		Uint("author_id", cmd.AuthorID).
		Msg("Subscribed to author")

	publish(ctx, h.events, domain.Event{
		Type:     domain.EventAuthorSubscribed,
		UserID:   cmd.SubscriberID,
		AuthorID: cmd.AuthorID,
	})
	return author, nil
}

// UnsubscribeCommand represents an unfollow request
type UnsubscribeCommand struct {
	SubscriberID uint
	AuthorID     uint
}

// UnsubscribeHandler handles unfollow requests
type UnsubscribeHandler struct {
	users         domain.UserRepository
	subscriptions domain.SubscriptionRepository
}

// NewUnsubscribeHandler creates a new unsubscribe handler
func NewUnsubscribeHandler(users domain.UserRepository, subscriptions domain.SubscriptionRepository) *UnsubscribeHandler {
	return &UnsubscribeHandler{users: users, subscriptions: subscriptions}
}

// Handle deletes the follow. Both a missing author and a missing follow are NotFound.
func (h *UnsubscribeHandler) Handle(ctx context.Context, cmd UnsubscribeCommand) error {
	if _, err := h.users.FindByID(ctx, cmd.AuthorID); err != nil {
		return storeError(err, fmt.Sprintf("user %d not found", cmd.AuthorID))
	}
	if err := h.subscriptions.Delete(ctx, cmd.SubscriberID, cmd.AuthorID); err != nil {
		return storeError(err, "subscription not found")
	}
	return nil
}
