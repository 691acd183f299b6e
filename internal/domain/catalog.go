package domain

import "context"

// Tag is immutable reference data used to classify recipes.
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:256;uniqueIndex;not null"`
	Color string `json:"color" gorm:"size:7;uniqueIndex;not null"`
	Slug  string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

// TableName specifies the table name
func (Tag) TableName() string {
	return "tags"
}

// Ingredient is master data. Names are indexed but intentionally not unique.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:256;index;not null"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:50;not null"`
}

// TableName specifies the table name
func (Ingredient) TableName() string {
	return "ingredients"
}

// TagRepository defines access to tags
type TagRepository interface {
	FindAll(ctx context.Context) ([]Tag, error)
	FindByID(ctx context.Context, id uint) (*Tag, error)
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]Tag, error)
	// Upsert inserts tags, updating name and color of rows whose slug already exists.
	Upsert(ctx context.Context, tags []Tag) error
}

// IngredientRepository defines read access to ingredients
type IngredientRepository interface {
	// FindAll returns ingredients whose name starts with namePrefix, ignoring case.
	// An empty prefix returns everything.
	FindAll(ctx context.Context, namePrefix string) ([]Ingredient, error)
	FindByID(ctx context.Context, id uint) (*Ingredient, error)
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
}
