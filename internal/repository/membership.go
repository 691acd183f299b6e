package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// GormMembershipRepository stores one user × recipe relation table.
// Favorites and the shopping cart share this implementation.
type GormMembershipRepository struct {
	db     *gorm.DB
	kind   domain.MembershipKind
	newRow func(userID, recipeID uint) any
}

// NewFavoriteRepository creates the repository backing favorites
func NewFavoriteRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{
		db:   db,
		kind: domain.KindFavorite,
		newRow: func(userID, recipeID uint) any {
			return &domain.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

// NewShoppingCartRepository creates the repository backing the shopping cart
func NewShoppingCartRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{
		db:   db,
		kind: domain.KindShoppingCart,
		newRow: func(userID, recipeID uint) any {
			return &domain.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
		},
	}
}

// Kind returns the relation this repository stores
func (r *GormMembershipRepository) Kind() domain.MembershipKind {
	return r.kind
}

// Add inserts the pair. The unique index turns a concurrent duplicate into domain.ErrDuplicate.
func (r *GormMembershipRepository) Add(ctx context.Context, userID, recipeID uint) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(r.newRow(userID, recipeID)).Error
	return wrapError("add "+string(r.kind), err)
}

// Remove deletes the pair if present
func (r *GormMembershipRepository) Remove(ctx context.Context, userID, recipeID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(r.newRow(0, 0)).Error
	return wrapError("remove "+string(r.kind), err)
}

// Exists reports whether the pair is stored
func (r *GormMembershipRepository) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, wrapError("check "+string(r.kind), err)
	}
	return count > 0, nil
}

// Contains reports which of recipeIDs belong to the user's relation
func (r *GormMembershipRepository) Contains(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return result, nil
	}

	var found []uint
	err := r.db.WithContext(ctx).
		Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &found).Error
	if err != nil {
		return nil, wrapError("load "+string(r.kind), err)
	}
	for _, id := range found {
		result[id] = true
	}
	return result, nil
}
