package command

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// recipeChecker runs the collection checks shared by recipe create and update.
type recipeChecker struct {
	tags        domain.TagRepository
	ingredients domain.IngredientRepository
}

// validateTagIDs requires a non-empty set of distinct, existing tags.
func (c recipeChecker) validateTagIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return apperr.FieldValidation("tags", "at least one tag is required")
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return apperr.FieldValidation("tags", "duplicate tag")
		}
		seen[id] = true
	}

	count, err := c.tags.CountByIDs(ctx, ids)
	if err != nil {
		return apperr.Internal(err)
	}
	if count != int64(len(ids)) {
		return apperr.FieldValidation("tags", "unknown tag")
	}
	return nil
}

// validateIngredientLines requires a non-empty list of distinct, existing
// ingredients with non-negative amounts.
func (c recipeChecker) validateIngredientLines(ctx context.Context, lines []domain.IngredientLine) error {
	if len(lines) == 0 {
		return apperr.FieldValidation("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uint]bool, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if line.IngredientID == 0 {
			return apperr.FieldValidation("ingredients", "ingredient id is required")
		}
		if line.Amount < domain.MinIngredientAmount {
			return apperr.FieldValidation("ingredients", "amount must not be negative")
		}
		if seen[line.IngredientID] {
			return apperr.FieldValidation("ingredients", "duplicate ingredient")
		}
		seen[line.IngredientID] = true
		ids = append(ids, line.IngredientID)
	}

	count, err := c.ingredients.CountByIDs(ctx, ids)
	if err != nil {
		return apperr.Internal(err)
	}
	if count != int64(len(ids)) {
		return apperr.FieldValidation("ingredients", "unknown ingredient")
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.FieldValidation("name", "is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxRecipeNameLength {
		return apperr.FieldValidation("name", "must not exceed 256 characters")
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.FieldValidation("text", "is required")
	}
	if utf8.RuneCountInString(text) > domain.MaxDescriptionLength {
		return apperr.FieldValidation("text", "must not exceed 2500 characters")
	}
	return nil
}

func validateCookingTime(minutes int) error {
	if minutes < domain.MinCookingTime {
		return apperr.FieldValidation("cooking_time", "must be at least 1 minute")
	}
	return nil
}
