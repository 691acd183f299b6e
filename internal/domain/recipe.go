package domain

import (
	"context"
	"time"
)

// Recipe limits
const (
	MaxRecipeNameLength  = 256
	MaxDescriptionLength = 2500
	MinCookingTime       = 1
	MinIngredientAmount  = 0
)

// Recipe is the root of the recipe aggregate: the row itself, its tag set and its
// ingredient lines are always written together.
type Recipe struct {
	ID          uint               `json:"id" gorm:"primaryKey"`
	AuthorID    uint               `json:"author_id" gorm:"not null;index"`
	Author      User               `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Name        string             `json:"name" gorm:"size:256;index;not null"`
	Image       string             `json:"image" gorm:"not null"`
	Description string             `json:"text" gorm:"type:text;not null"`
	CookingTime int                `json:"cooking_time" gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1"`
	PubDate     time.Time          `json:"pub_date" gorm:"autoCreateTime;index"`
	Tags        []Tag              `json:"-" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient binds an ingredient to a recipe with an amount.
// A recipe lists each ingredient at most once.
type RecipeIngredient struct {
	ID           uint       `json:"-" gorm:"primaryKey"`
	RecipeID     uint       `json:"-" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint       `json:"id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Amount       int        `json:"amount" gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 0"`
}

// TableName specifies the table name
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// IngredientLine is one (ingredient, amount) pair of a recipe write.
type IngredientLine struct {
	IngredientID uint `json:"id"`
	Amount       int  `json:"amount"`
}

// RecipeChanges describes a partial update of a recipe. Nil fields are left untouched.
type RecipeChanges struct {
	Name        *string
	Description *string
	CookingTime *int
	Image       *string
	// TagIDs replaces the whole tag set when non-nil.
	TagIDs []uint
	// Lines replaces all ingredient lines when non-nil.
	Lines []IngredientLine
}

// RecipeFilter narrows a recipe listing. Zero values disable a criterion.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    uint
	FavoritedBy uint
	InCartOf    uint
}

// ShoppingListLine is one aggregated ingredient of a shopping list.
type ShoppingListLine struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount"`
}

// RecipeRepository defines the contract for recipe aggregate persistence
type RecipeRepository interface {
	// Create inserts the recipe, its tag links and its ingredient lines atomically.
	Create(ctx context.Context, recipe *Recipe, tagIDs []uint, lines []IngredientLine) error
	// Update applies changes atomically. Supplied collections replace the stored ones.
	Update(ctx context.Context, id uint, changes RecipeChanges) error
	Delete(ctx context.Context, id uint) error
	// FindByID returns the recipe with author, tags and ingredient lines loaded.
	FindByID(ctx context.Context, id uint) (*Recipe, error)
	FindAll(ctx context.Context, filter RecipeFilter, limit, offset int) ([]Recipe, int64, error)
	// FindByAuthor returns the newest recipes of an author. A negative limit returns all of them.
	FindByAuthor(ctx context.Context, authorID uint, limit int) ([]Recipe, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// ShoppingList sums ingredient amounts over the recipes in the user's cart,
	// grouped by ingredient name and unit and ordered by name.
	ShoppingList(ctx context.Context, userID uint) ([]ShoppingListLine, error)
}
