// Package app wires repositories, usecases and the HTTP surface together.
package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vanchez121994/foodgram-project-react/internal/config"
	httpDelivery "github.com/vanchez121994/foodgram-project-react/internal/delivery/http"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/repository"
	"github.com/vanchez121994/foodgram-project-react/internal/usecase/command"
	"github.com/vanchez121994/foodgram-project-react/internal/usecase/query"
	"github.com/vanchez121994/foodgram-project-react/internal/validation"
	"github.com/vanchez121994/foodgram-project-react/pkg/auth"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// Repositories holds every store the usecases depend on
type Repositories struct {
	Users         domain.UserRepository
	Tags          domain.TagRepository
	Ingredients   domain.IngredientRepository
	Recipes       domain.RecipeRepository
	Favorites     domain.MembershipRepository
	ShoppingCart  domain.MembershipRepository
	Subscriptions domain.SubscriptionRepository
}

// ProvideRepositories provides the gorm repositories. Recipe access is traced.
func ProvideRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         repository.NewGormUserRepository(db),
		Tags:          repository.NewGormTagRepository(db),
		Ingredients:   repository.NewGormIngredientRepository(db),
		Recipes:       repository.NewTracingRecipeRepository(repository.NewGormRecipeRepository(db)),
		Favorites:     repository.NewFavoriteRepository(db),
		ShoppingCart:  repository.NewShoppingCartRepository(db),
		Subscriptions: repository.NewGormSubscriptionRepository(db),
	}
}

// ProvideCommands provides all command handlers
func ProvideCommands(
	repos *Repositories,
	images domain.ImageStore,
	events domain.EventPublisher,
	tokens *auth.TokenManager,
	denylist *auth.Denylist,
	v *validation.Validator,
) httpDelivery.Commands {
	return httpDelivery.Commands{
		CreateRecipe: command.NewCreateRecipeHandler(repos.Recipes, repos.Tags, repos.Ingredients, images, events),
		UpdateRecipe: command.NewUpdateRecipeHandler(repos.Recipes, repos.Tags, repos.Ingredients, images, events),
		DeleteRecipe: command.NewDeleteRecipeHandler(repos.Recipes, images, events),
		Favorite:     command.NewMembershipHandler(repos.Favorites, repos.Recipes, events),
		ShoppingCart: command.NewMembershipHandler(repos.ShoppingCart, repos.Recipes, events),
		Subscribe:    command.NewSubscribeHandler(repos.Users, repos.Subscriptions, events),
		Unsubscribe:  command.NewUnsubscribeHandler(repos.Users, repos.Subscriptions),
		Register:     command.NewRegisterUserHandler(repos.Users, v),
		Login:        command.NewLoginHandler(repos.Users, tokens, v),
		Logout:       command.NewLogoutHandler(denylist),
		SetPassword:  command.NewSetPasswordHandler(repos.Users, v),
	}
}

// ProvideQueries provides all query handlers
func ProvideQueries(repos *Repositories) httpDelivery.Queries {
	recipeViews := query.NewRecipeViewBuilder(repos.Favorites, repos.ShoppingCart, repos.Subscriptions)
	authorViews := query.NewAuthorViewBuilder(repos.Recipes, repos.Subscriptions)

	return httpDelivery.Queries{
		GetRecipe:     query.NewGetRecipeHandler(repos.Recipes, recipeViews),
		ListRecipes:   query.NewListRecipesHandler(repos.Recipes, repos.Tags, recipeViews),
		ShoppingList:  query.NewShoppingListHandler(repos.Recipes),
		Catalog:       query.NewCatalogHandler(repos.Tags, repos.Ingredients),
		Users:         query.NewUserQueryHandler(repos.Users, repos.Subscriptions),
		Subscriptions: query.NewSubscriptionQueryHandler(repos.Users, repos.Subscriptions, authorViews),
	}
}

// ProvideAuthenticator provides the token authenticator
func ProvideAuthenticator(repos *Repositories, tokens *auth.TokenManager, denylist *auth.Denylist) *httpDelivery.Authenticator {
	return httpDelivery.NewAuthenticator(tokens, denylist, repos.Users)
}

// ProvidePageSize maps pagination settings onto the HTTP layer
func ProvidePageSize(cfg config.PaginationConfig) httpDelivery.PageSize {
	return httpDelivery.PageSize{Default: cfg.DefaultPageSize, Max: cfg.MaxPageSize}
}

// ProvideSeedTagsHandler provides the tag fixture loader
func ProvideSeedTagsHandler(repos *Repositories, v *validation.Validator) *command.SeedTagsHandler {
	return command.NewSeedTagsHandler(repos.Tags, v)
}

// NewHTTPHandler builds the API handler by hand, in the same order Wire does
func NewHTTPHandler(
	repos *Repositories,
	images domain.ImageStore,
	events domain.EventPublisher,
	tokens *auth.TokenManager,
	denylist *auth.Denylist,
	loginLimiter *httpDelivery.RateLimiter,
	catalogCache *httpDelivery.ResponseCache,
	metrics *httpDelivery.Metrics,
	pagination config.PaginationConfig,
) *httpDelivery.Handler {
	v := validation.New()
	return httpDelivery.NewHandler(
		ProvideCommands(repos, images, events, tokens, denylist, v),
		ProvideQueries(repos),
		ProvideAuthenticator(repos, tokens, denylist),
		loginLimiter,
		catalogCache,
		metrics,
		ProvidePageSize(pagination),
	)
}

// SeedTags upserts the configured tag fixtures
func SeedTags(ctx context.Context, handler *command.SeedTagsHandler, fixtures []config.TagFixture) error {
	if len(fixtures) == 0 {
		return nil
	}

	seeds := make([]command.TagSeed, 0, len(fixtures))
	for _, f := range fixtures {
		seeds = append(seeds, command.TagSeed{Name: f.Name, Color: f.Color, Slug: f.Slug})
	}
	if err := handler.Handle(ctx, command.SeedTagsCommand{Tags: seeds}); err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}

	logger.Info(ctx).Int("count", len(seeds)).Msg("Tag fixtures loaded")
	return nil
}
