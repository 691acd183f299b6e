package query

import (
	"context"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// Page is one page of a listing together with the total number of matches
type Page[T any] struct {
	Items []T
	Total int64
}

// RecipeViewBuilder turns loaded recipes into read views for a viewer.
// Per-viewer flags are loaded in one query per relation, not per recipe.
type RecipeViewBuilder struct {
	favorites     domain.MembershipRepository
	cart          domain.MembershipRepository
	subscriptions domain.SubscriptionRepository
}

// NewRecipeViewBuilder creates a view builder
func NewRecipeViewBuilder(favorites, cart domain.MembershipRepository, subscriptions domain.SubscriptionRepository) *RecipeViewBuilder {
	return &RecipeViewBuilder{favorites: favorites, cart: cart, subscriptions: subscriptions}
}

// Build renders recipes as seen by viewerID. A zero viewer is anonymous and gets all flags false.
func (b *RecipeViewBuilder) Build(ctx context.Context, viewerID uint, recipes []domain.Recipe) ([]domain.RecipeView, error) {
	views := make([]domain.RecipeView, 0, len(recipes))
	if len(recipes) == 0 {
		return views, nil
	}

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, inCart, following := map[uint]bool{}, map[uint]bool{}, map[uint]bool{}
	if viewerID != 0 {
		var err error
		if favorited, err = b.favorites.Contains(ctx, viewerID, recipeIDs); err != nil {
			return nil, apperr.Internal(err)
		}
		if inCart, err = b.cart.Contains(ctx, viewerID, recipeIDs); err != nil {
			return nil, apperr.Internal(err)
		}
		if following, err = b.subscriptions.SubscribedTo(ctx, viewerID, authorIDs); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	for _, r := range recipes {
		views = append(views, domain.RecipeView{
			ID:               r.ID,
			Tags:             nonNilTags(r.Tags),
			Author:           domain.NewUserProfile(r.Author, following[r.AuthorID]),
			Ingredients:      ingredientViews(r.Ingredients),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Description,
			CookingTime:      r.CookingTime,
		})
	}
	return views, nil
}

func nonNilTags(tags []domain.Tag) []domain.Tag {
	if tags == nil {
		return []domain.Tag{}
	}
	return tags
}

func ingredientViews(lines []domain.RecipeIngredient) []domain.RecipeIngredientView {
	views := make([]domain.RecipeIngredientView, 0, len(lines))
	for _, line := range lines {
		views = append(views, domain.RecipeIngredientView{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	return views
}

// AuthorViewBuilder renders followed authors with their newest recipes
type AuthorViewBuilder struct {
	recipes       domain.RecipeRepository
	subscriptions domain.SubscriptionRepository
}

// NewAuthorViewBuilder creates an author view builder
func NewAuthorViewBuilder(recipes domain.RecipeRepository, subscriptions domain.SubscriptionRepository) *AuthorViewBuilder {
	return &AuthorViewBuilder{recipes: recipes, subscriptions: subscriptions}
}

// Build renders authors as seen by viewerID. recipesLimit < 0 includes every recipe.
func (b *AuthorViewBuilder) Build(ctx context.Context, viewerID uint, authors []domain.User, recipesLimit int) ([]domain.AuthorView, error) {
	views := make([]domain.AuthorView, 0, len(authors))
	if len(authors) == 0 {
		return views, nil
	}

	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	following := map[uint]bool{}
	if viewerID != 0 {
		var err error
		if following, err = b.subscriptions.SubscribedTo(ctx, viewerID, ids); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	for _, author := range authors {
		recipes, err := b.recipes.FindByAuthor(ctx, author.ID, recipesLimit)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		count, err := b.recipes.CountByAuthor(ctx, author.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}

		shorts := make([]domain.RecipeShort, 0, len(recipes))
		for _, r := range recipes {
			shorts = append(shorts, domain.NewRecipeShort(r))
		}
		views = append(views, domain.AuthorView{
			UserProfile:  domain.NewUserProfile(author, following[author.ID]),
			Recipes:      shorts,
			RecipesCount: count,
		})
	}
	return views, nil
}
