package command

import (
	"context"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/validation"
)

// TagSeed is one tag of the reference data loaded at startup
type TagSeed struct {
	Name  string `json:"name" validate:"required,max=256"`
	Color string `json:"color" validate:"required,tagcolor"`
	Slug  string `json:"slug" validate:"required,max=50"`
}

// SeedTagsCommand upserts reference tags
type SeedTagsCommand struct {
	Tags []TagSeed `json:"tags" validate:"dive"`
}

// SeedTagsHandler loads tag fixtures
type SeedTagsHandler struct {
	tags      domain.TagRepository
	validator *validation.Validator
}

// NewSeedTagsHandler creates a new seed tags handler
func NewSeedTagsHandler(tags domain.TagRepository, validator *validation.Validator) *SeedTagsHandler {
	return &SeedTagsHandler{tags: tags, validator: validator}
}

// Handle validates every tag and upserts them by slug
func (h *SeedTagsHandler) Handle(ctx context.Context, cmd SeedTagsCommand) error {
	if len(cmd.Tags) == 0 {
		return nil
	}
	if err := h.validator.Validate(cmd); err != nil {
		return err
	}

	tags := make([]domain.Tag, 0, len(cmd.Tags))
	for _, seed := range cmd.Tags {
		tags = append(tags, domain.Tag{Name: seed.Name, Color: seed.Color, Slug: seed.Slug})
	}
	if err := h.tags.Upsert(ctx, tags); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
