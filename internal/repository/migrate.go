package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// AutoMigrate creates or updates every table of the store.
// Order matters: referenced tables come first.
func AutoMigrate(db *gorm.DB) error {
	models := []any{
		&domain.User{},
		&domain.Tag{},
		&domain.Ingredient{},
		&domain.Recipe{},
		&domain.RecipeIngredient{},
		&domain.Favorite{},
		&domain.ShoppingCartItem{},
		&domain.Subscription{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
