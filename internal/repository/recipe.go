package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// recipeTag is a row of the many2many join table gorm creates for Recipe.Tags
type recipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey"`
}

func (recipeTag) TableName() string {
	return "recipe_tags"
}

// GormRecipeRepository implements domain.RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GORM recipe repository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// Create inserts the recipe row, its tag links and its ingredient lines in one transaction
func (r *GormRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe, tagIDs []uint, lines []domain.IngredientLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return wrapError("create recipe", err)
		}
		if err := insertTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return insertLines(tx, recipe.ID, lines)
	})
}

// Update applies changes in one transaction. The recipe row is locked first so
// concurrent updates of the same recipe serialize.
func (r *GormRecipeRepository) Update(ctx context.Context, id uint, changes domain.RecipeChanges) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked domain.Recipe
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&locked, id).Error
		if err != nil {
			return wrapError("lock recipe", err)
		}

		if updates := scalarUpdates(changes); len(updates) > 0 {
			if err := tx.Model(&domain.Recipe{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return wrapError("update recipe", err)
			}
		}

		if changes.TagIDs != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&recipeTag{}).Error; err != nil {
				return wrapError("clear recipe tags", err)
			}
			if err := insertTags(tx, id, changes.TagIDs); err != nil {
				return err
			}
		}

		if changes.Lines != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&domain.RecipeIngredient{}).Error; err != nil {
				return wrapError("clear recipe ingredients", err)
			}
			if err := insertLines(tx, id, changes.Lines); err != nil {
				return err
			}
		}
		return nil
	})
}

func scalarUpdates(changes domain.RecipeChanges) map[string]any {
	updates := map[string]any{}
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if changes.Description != nil {
		updates["description"] = *changes.Description
	}
	if changes.CookingTime != nil {
		updates["cooking_time"] = *changes.CookingTime
	}
	if changes.Image != nil {
		updates["image"] = *changes.Image
	}
	return updates
}

func insertTags(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]recipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, recipeTag{RecipeID: recipeID, TagID: tagID})
	}
	return wrapError("link recipe tags", tx.Create(&rows).Error)
}

func insertLines(tx *gorm.DB, recipeID uint, lines []domain.IngredientLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]domain.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, domain.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}
	return wrapError("create recipe ingredients", tx.Omit(clause.Associations).Create(&rows).Error)
}

// Delete removes the recipe. Tag links, lines, favorites and cart rows cascade.
func (r *GormRecipeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Recipe{}, id)
	if result.Error != nil {
		return wrapError("delete recipe", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapError("delete recipe", gorm.ErrRecordNotFound)
	}
	return nil
}

// FindByID retrieves a recipe with author, tags and ingredient lines loaded
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uint) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, wrapError("find recipe", err)
	}
	return &recipe, nil
}

// FindAll returns one page of recipes matching filter, newest first, plus the total count
func (r *GormRecipeRepository) FindAll(ctx context.Context, filter domain.RecipeFilter, limit, offset int) ([]domain.Recipe, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Recipe{}).Scopes(filterRecipes(filter))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, wrapError("count recipes", err)
	}

	var recipes []domain.Recipe
	err := r.withDetails(base()).
		Order("recipes.pub_date DESC").
		Order("recipes.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, wrapError("find recipes", err)
	}
	return recipes, total, nil
}

// FindByAuthor returns the newest recipes of an author without associations
func (r *GormRecipeRepository) FindByAuthor(ctx context.Context, authorID uint, limit int) ([]domain.Recipe, error) {
	if limit == 0 {
		return []domain.Recipe{}, nil
	}
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []domain.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, wrapError("find recipes by author", err)
	}
	return recipes, nil
}

// CountByAuthor counts an author's recipes
func (r *GormRecipeRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, wrapError("count recipes by author", err)
	}
	return count, nil
}

// Exists reports whether a recipe with id exists
func (r *GormRecipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, wrapError("check recipe", err)
	}
	return count > 0, nil
}

// ShoppingList aggregates the ingredient lines of every recipe in the user's cart
func (r *GormRecipeRepository) ShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListLine, error) {
	lines := []domain.ShoppingListLine{}
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients AS ri").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total_amount").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Joins("JOIN shopping_cart AS sc ON sc.recipe_id = ri.recipe_id").
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name ASC").
		Order("i.measurement_unit ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, wrapError("aggregate shopping list", err)
	}
	return lines, nil
}

func (r *GormRecipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id ASC")
		}).
		Preload("Ingredients.Ingredient")
}

// filterRecipes narrows a recipe query. Each criterion is a subquery on the
// relation table, so criteria combine with AND and never duplicate rows.
func filterRecipes(f domain.RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true})

		if len(f.TagSlugs) > 0 {
			db = db.Where("recipes.id IN (?)", sub.
				Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs))
		}
		if f.AuthorID != 0 {
			db = db.Where("recipes.author_id = ?", f.AuthorID)
		}
		if f.FavoritedBy != 0 {
			db = db.Where("recipes.id IN (?)", sub.
				Model(&domain.Favorite{}).
				Select("recipe_id").
				Where("user_id = ?", f.FavoritedBy))
		}
		if f.InCartOf != 0 {
			db = db.Where("recipes.id IN (?)", sub.
				Model(&domain.ShoppingCartItem{}).
				Select("recipe_id").
				Where("user_id = ?", f.InCartOf))
		}
		return db
	}
}
