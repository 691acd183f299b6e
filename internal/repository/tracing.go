package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

var tracer = otel.Tracer("recipe-repository")

// TracingRecipeRepository wraps a domain.RecipeRepository with spans
type TracingRecipeRepository struct {
	next domain.RecipeRepository
}

// NewTracingRecipeRepository creates a repository that traces every call to next
func NewTracingRecipeRepository(next domain.RecipeRepository) *TracingRecipeRepository {
	return &TracingRecipeRepository{next: next}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create with tracing
func (r *TracingRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe, tagIDs []uint, lines []domain.IngredientLine) (err error) {
	ctx, span := startSpan(ctx, "repository.Recipe.Create",
		attribute.Int("recipe.author_id", int(recipe.AuthorID)),
		attribute.Int("recipe.tags", len(tagIDs)),
		attribute.Int("recipe.ingredients", len(lines)),
	)
	defer func() { finishSpan(span, err) }()

	if err = r.next.Create(ctx, recipe, tagIDs, lines); err == nil {
		span.SetAttributes(attribute.Int("recipe.id", int(recipe.ID)))
	}
	return err
}

// Update with tracing
func (r *TracingRecipeRepository) Update(ctx context.Context, id uint, changes domain.RecipeChanges) (err error) {
	ctx, span := startSpan(ctx, "repository.Recipe.Update",
		attribute.Int("recipe.id", int(id)),
		attribute.Bool("recipe.replace_tags", changes.TagIDs != nil),
		attribute.Bool("recipe.replace_ingredients", changes.Lines != nil),
	)
	defer func() { finishSpan(span, err) }()

	return r.next.Update(ctx, id, changes)
}

// Delete with tracing
func (r *TracingRecipeRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "repository.Recipe.Delete", attribute.Int("recipe.id", int(id)))
	defer func() { finishSpan(span, err) }()

	return r.next.Delete(ctx, id)
}

// FindByID with tracing
func (r *TracingRecipeRepository) FindByID(ctx context.Context, id uint) (recipe *domain.Recipe, err error) {
	ctx, span := startSpan(ctx, "repository.Recipe.FindByID", attribute.Int("recipe.id", int(id)))
	defer func() { finishSpan(span, err) }()

	return r.next.FindByID(ctx, id)
}

// FindAll with tracing
func (r *TracingRecipeRepository) FindAll(ctx context.Context, filter domain.RecipeFilter, limit, offset int) (recipes []domain.Recipe, total int64, err error) {
	ctx, span := startSpan(ctx, "repository.Recipe.FindAll",
		attribute.StringSlice("query.tags", filter.TagSlugs),
		attribute.Int("query.author_id", int(filter.AuthorID)),
		attribute.Bool("query.favorited", filter.FavoritedBy != 0),
		attribute.Bool("query.in_cart", filter.InCartOf != 0),
		attribute.Int("query.limit", limit),
		attribute.Int("query.offset", offset),
	)
	defer func() { finishSpan(span, err) }()

	recipes, total, err = r.next.FindAll(ctx, filter, limit, offset)
	if err == nil {
		span.SetAttributes(
			attribute.Int("result.count", len(recipes)),
			attribute.Int64("result.total", total),
		)
	}
	return recipes, total, err
}

// FindByAuthor with tracing
func (r *TracingRecipeRepository) FindByAuthor(ctx context.Context, authorID uint, limit int) (recipes []domain.Recipe, err error) {
	ctx, span := startSpan(ctx, "repository.Recipe.FindByAuthor",
		attribute.Int("query.author_id", int(authorID)),
		attribute.Int("query.limit", limit),
	)
	defer func() { finishSpan(span, err) }()

	return r.next.FindByAuthor(ctx, authorID, limit)
}

// CountByAuthor with tracing
func (r *TracingRecipeRepository) CountByAuthor(ctx context.Context, authorID uint) (count int64, err error) {
	ctx, span := startSpan(ctx, "repository.Recipe.CountByAuthor", attribute.Int("query.author_id", int(authorID)))
	defer func() { finishSpan(span, err) }()

	return r.next.CountByAuthor(ctx, authorID)
}

// Exists with tracing
func (r *TracingRecipeRepository) Exists(ctx context.Context, id uint) (ok bool, err error) {
	ctx, span := startSpan(ctx, "repository.Recipe.Exists", attribute.Int("recipe.id", int(id)))
	defer func() { finishSpan(span, err) }()

	return r.next.Exists(ctx, id)
}

// ShoppingList with tracing
func (r *TracingRecipeRepository) ShoppingList(ctx context.Context, userID uint) (lines []domain.ShoppingListLine, err error) {
	ctx, span := startSpan(ctx, "repository.Recipe.ShoppingList", attribute.Int("user.id", int(userID)))
	defer func() { finishSpan(span, err) }()

	lines, err = r.next.ShoppingList(ctx, userID)
	if err == nil {
		span.SetAttributes(attribute.Int("result.lines", len(lines)))
	}
	return lines, err
}
