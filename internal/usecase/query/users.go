package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// UserQueryHandler serves user profiles
type UserQueryHandler struct {
	users         domain.UserRepository
	subscriptions domain.SubscriptionRepository
}

// NewUserQueryHandler creates a new user query handler
func NewUserQueryHandler(users domain.UserRepository, subscriptions domain.SubscriptionRepository) *UserQueryHandler {
	return &UserQueryHandler{users: users, subscriptions: subscriptions}
}

// GetUser returns the profile of id as seen by viewerID
func (h *UserQueryHandler) GetUser(ctx context.Context, viewerID, id uint) (*domain.UserProfile, error) {
	user, err := h.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("user %d not found", id))
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	profiles, err := h.profiles(ctx, viewerID, []domain.User{*user})
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

// ListUsers returns one page of profiles ordered by username
func (h *UserQueryHandler) ListUsers(ctx context.Context, viewerID uint, limit, offset int) (*Page[domain.UserProfile], error) {
	users, total, err := h.users.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	profiles, err := h.profiles(ctx, viewerID, users)
	if err != nil {
		return nil, err
	}
	return &Page[domain.UserProfile]{Items: profiles, Total: total}, nil
}

func (h *UserQueryHandler) profiles(ctx context.Context, viewerID uint, users []domain.User) ([]domain.UserProfile, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	following := map[uint]bool{}
	if viewerID != 0 && len(ids) > 0 {
		var err error
		if following, err = h.subscriptions.SubscribedTo(ctx, viewerID, ids); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	profiles := make([]domain.UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, domain.NewUserProfile(u, following[u.ID]))
	}
	return profiles, nil
}

// SubscriptionsQuery lists the authors a user follows
type SubscriptionsQuery struct {
	SubscriberID uint
	RecipesLimit int
	Limit        int
	Offset       int
}

// AuthorQuery renders one author as seen by a viewer
type AuthorQuery struct {
	ViewerID     uint
	AuthorID     uint
	RecipesLimit int
}

// SubscriptionQueryHandler serves followed authors
type SubscriptionQueryHandler struct {
	users         domain.UserRepository
	subscriptions domain.SubscriptionRepository
	authors       *AuthorViewBuilder
}

// NewSubscriptionQueryHandler creates a new subscription query handler
func NewSubscriptionQueryHandler(users domain.UserRepository, subscriptions domain.SubscriptionRepository, authors *AuthorViewBuilder) *SubscriptionQueryHandler {
	return &SubscriptionQueryHandler{users: users, subscriptions: subscriptions, authors: authors}
}

// ListSubscriptions returns one page of followed authors with their recipes
func (h *SubscriptionQueryHandler) ListSubscriptions(ctx context.Context, q SubscriptionsQuery) (*Page[domain.AuthorView], error) {
	authors, total, err := h.subscriptions.FindAuthors(ctx, q.SubscriberID, q.Limit, q.Offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views, err := h.authors.Build(ctx, q.SubscriberID, authors, q.RecipesLimit)
	if err != nil {
		return nil, err
	}
	return &Page[domain.AuthorView]{Items: views, Total: total}, nil
}

// GetAuthor renders one author with their recipes
func (h *SubscriptionQueryHandler) GetAuthor(ctx context.Context, q AuthorQuery) (*domain.AuthorView, error) {
	author, err := h.users.FindByID(ctx, q.AuthorID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("user %d not found", q.AuthorID))
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	views, err := h.authors.Build(ctx, q.ViewerID, []domain.User{*author}, q.RecipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
