package domain

import (
	"context"
	"time"
)

// MembershipKind names a user × recipe relation.
type MembershipKind string

const (
	KindFavorite     MembershipKind = "favorite"
	KindShoppingCart MembershipKind = "shopping_cart"
)

// Favorite marks a recipe as liked by a user
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_favorite_recipe_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_recipe_user;index"`
	Recipe    Recipe    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCartItem puts a recipe into a user's shopping cart
type ShoppingCartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_cart_recipe_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_recipe_user;index"`
	Recipe    Recipe    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (ShoppingCartItem) TableName() string {
	return "shopping_cart"
}

// MembershipRepository stores one user × recipe relation. At most one row exists per pair.
type MembershipRepository interface {
	Kind() MembershipKind
	// Add returns ErrDuplicate when the pair already exists.
	Add(ctx context.Context, userID, recipeID uint) error
	// Remove deletes the pair if present. A missing pair is not an error.
	Remove(ctx context.Context, userID, recipeID uint) error
	Exists(ctx context.Context, userID, recipeID uint) (bool, error)
	// Contains reports which of recipeIDs are related to the user.
	Contains(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

// Subscription is a directed follow from subscriber to author
type Subscription struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SubscriberID uint      `json:"subscriber_id" gorm:"not null;uniqueIndex:idx_subscriber_author;check:chk_subscriber_not_author,subscriber_id <> author_id"`
	AuthorID     uint      `json:"author_id" gorm:"not null;uniqueIndex:idx_subscriber_author;index"`
	Subscriber   User      `json:"-" gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
	Author       User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionRepository defines the contract for follow relations
type SubscriptionRepository interface {
	// Create returns ErrDuplicate when the pair already exists.
	Create(ctx context.Context, sub *Subscription) error
	// Delete returns ErrNotFound when the pair does not exist.
	Delete(ctx context.Context, subscriberID, authorID uint) error
	Exists(ctx context.Context, subscriberID, authorID uint) (bool, error)
	// FindAuthors returns the users followed by subscriberID, ordered by username.
	FindAuthors(ctx context.Context, subscriberID uint, limit, offset int) ([]User, int64, error)
	// SubscribedTo reports which of authorIDs the subscriber follows.
	SubscribedTo(ctx context.Context, subscriberID uint, authorIDs []uint) (map[uint]bool, error)
}
