package query

import (
	"strconv"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
)

// NoRecipesLimit includes every recipe of an author
const NoRecipesLimit = -1

// ParseRecipesLimit parses the recipes_limit parameter. Empty means no limit.
func ParseRecipesLimit(raw string) (int, error) {
	if raw == "" {
		return NoRecipesLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, apperr.FieldValidation("recipes_limit", "must be a non-negative integer")
	}
	return limit, nil
}

// ParseFlag parses a 0/1 filter flag. Empty means unset.
func ParseFlag(name, raw string) (bool, error) {
	switch raw {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, apperr.FieldValidation(name, "must be 0 or 1")
	}
}

// ParseID parses a positive numeric identifier
func ParseID(name, raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.FieldValidation(name, "must be a positive integer")
	}
	return uint(id), nil
}
