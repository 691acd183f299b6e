package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// GormTagRepository implements domain.TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GORM tag repository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindAll returns every tag ordered by name
func (r *GormTagRepository) FindAll(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, wrapError("find tags", err)
	}
	return tags, nil
}

// FindByID retrieves a tag by ID
func (r *GormTagRepository) FindByID(ctx context.Context, id uint) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, wrapError("find tag", err)
	}
	return &tag, nil
}

// CountByIDs counts how many of ids exist
func (r *GormTagRepository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	return countByIDs(ctx, r.db, &domain.Tag{}, ids)
}

// FindBySlugs returns the tags whose slug is in slugs
func (r *GormTagRepository) FindBySlugs(ctx context.Context, slugs []string) ([]domain.Tag, error) {
	var tags []domain.Tag
	if len(slugs) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&tags).Error; err != nil {
		return nil, wrapError("find tags by slug", err)
	}
	return tags, nil
}

// Upsert inserts tags keyed by slug, refreshing name and color of existing rows
func (r *GormTagRepository) Upsert(ctx context.Context, tags []domain.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "color"}),
	}).Create(&tags).Error
	return wrapError("upsert tags", err)
}

// GormIngredientRepository implements domain.IngredientRepository using GORM
type GormIngredientRepository struct {
	db *gorm.DB
}

// NewGormIngredientRepository creates a new GORM ingredient repository
func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

// FindAll returns ingredients whose name starts with namePrefix, ignoring case
func (r *GormIngredientRepository) FindAll(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if namePrefix != "" {
		query = query.Where("name ILIKE ?", prefixPattern(namePrefix))
	}

	var ingredients []domain.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, wrapError("find ingredients", err)
	}
	return ingredients, nil
}

// FindByID retrieves an ingredient by ID
func (r *GormIngredientRepository) FindByID(ctx context.Context, id uint) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, wrapError("find ingredient", err)
	}
	return &ingredient, nil
}

// CountByIDs counts how many of ids exist
func (r *GormIngredientRepository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	return countByIDs(ctx, r.db, &domain.Ingredient{}, ids)
}

func countByIDs(ctx context.Context, db *gorm.DB, model any, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, wrapError("count rows", err)
	}
	return count, nil
}
