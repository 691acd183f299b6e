package command

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/testutil"
	"github.com/vanchez121994/foodgram-project-react/internal/testutil/memstore"
	"github.com/vanchez121994/foodgram-project-react/internal/validation"
	"github.com/vanchez121994/foodgram-project-react/pkg/auth"
)

type env struct {
	store     *memstore.Store
	images    *testutil.ImageStore
	events    *testutil.EventRecorder
	alice     domain.User
	bob       domain.User
	breakfast domain.Tag
	dinner    domain.Tag
	eggs      domain.Ingredient
	flour     domain.Ingredient
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		store:  memstore.New(),
		images: &testutil.ImageStore{},
		events: &testutil.EventRecorder{},
		alice:  domain.User{Email: "alice@example.com", Username: "alice", FirstName: "Alice", LastName: "A"},
		bob:    domain.User{Email: "bob@example.com", Username: "bob", FirstName: "Bob", LastName: "B"},
	}
	require.NoError(t, e.store.Users().Create(context.Background(), &e.alice))
	require.NoError(t, e.store.Users().Create(context.Background(), &e.bob))
	e.breakfast = e.store.AddTag("Breakfast", "#E26C2D", "breakfast")
	e.dinner = e.store.AddTag("Dinner", "#49B64E", "dinner")
	e.eggs = e.store.AddIngredient("eggs", "pcs")
	e.flour = e.store.AddIngredient("flour", "g")
	return e
}

func (e *env) createHandler() *CreateRecipeHandler {
	return NewCreateRecipeHandler(e.store.Recipes(), e.store.Tags(), e.store.Ingredients(), e.images, e.events)
}

func (e *env) validCreate() CreateRecipeCommand {
	return CreateRecipeCommand{
		AuthorID:    e.alice.ID,
		Name:        "Pancakes",
		Image:       testutil.PNGDataURI,
		Text:        "Mix and fry.",
		CookingTime: 20,
		TagIDs:      []uint{e.breakfast.ID},
		Ingredients: []domain.IngredientLine{
			{IngredientID: e.eggs.ID, Amount: 2},
			{IngredientID: e.flour.ID, Amount: 200},
		},
	}
}

func (e *env) mustCreate(t *testing.T) *domain.Recipe {
	t.Helper()
	recipe, err := e.createHandler().Handle(context.Background(), e.validCreate())
	require.NoError(t, err)
	return recipe
}

func detail(t *testing.T, err error, field string) string {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %v", err)
	return appErr.Details[field]
}

func TestCreateRecipe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	recipe, err := e.createHandler().Handle(ctx, e.validCreate())
	require.NoError(t, err)

	stored, err := e.store.Recipes().FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", stored.Name)
	assert.Equal(t, "/media/recipes/images/1.png", stored.Image)
	require.Len(t, stored.Tags, 1)
	assert.Equal(t, e.breakfast.ID, stored.Tags[0].ID)

	amounts := map[uint]int{}
	for _, line := range stored.Ingredients {
		amounts[line.IngredientID] = line.Amount
	}
	assert.Equal(t, map[uint]int{e.eggs.ID: 2, e.flour.ID: 200}, amounts)
	assert.Equal(t, []string{domain.EventRecipeCreated}, e.events.Types())
}

func TestCreateRecipeValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *env, cmd *CreateRecipeCommand)
		field  string
		msg    string
	}{
		{
			name:   "no tags",
			mutate: func(_ *env, cmd *CreateRecipeCommand) { cmd.TagIDs = nil },
			field:  "tags",
			msg:    "at least one tag is required",
		},
		{
			name:   "duplicate tag",
			mutate: func(e *env, cmd *CreateRecipeCommand) { cmd.TagIDs = []uint{e.breakfast.ID, e.breakfast.ID} },
			field:  "tags",
			msg:    "duplicate tag",
		},
		{
			name:   "unknown tag",
			mutate: func(_ *env, cmd *CreateRecipeCommand) { cmd.TagIDs = []uint{999} },
			field:  "tags",
			msg:    "unknown tag",
		},
		{
			name:   "no ingredients",
			mutate: func(_ *env, cmd *CreateRecipeCommand) { cmd.Ingredients = []domain.IngredientLine{} },
			field:  "ingredients",
			msg:    "at least one ingredient is required",
		},
		{
			name: "duplicate ingredient",
			mutate: func(e *env, cmd *CreateRecipeCommand) {
				cmd.Ingredients = []domain.IngredientLine{{IngredientID: e.eggs.ID, Amount: 1}, {IngredientID: e.eggs.ID, Amount: 2}}
			},
			field: "ingredients",
			msg:   "duplicate ingredient",
		},
		{
			name: "negative amount",
			mutate: func(e *env, cmd *CreateRecipeCommand) {
				cmd.Ingredients = []domain.IngredientLine{{IngredientID: e.eggs.ID, Amount: -1}}
			},
			field: "ingredients",
			msg:   "amount must not be negative",
		},
		{
			name: "missing ingredient id",
			mutate: func(_ *env, cmd *CreateRecipeCommand) {
				cmd.Ingredients = []domain.IngredientLine{{Amount: 1}}
			},
			field: "ingredients",
			msg:   "ingredient id is required",
		},
		{
			name: "unknown ingredient",
			mutate: func(_ *env, cmd *CreateRecipeCommand) {
				cmd.Ingredients = []domain.IngredientLine{{IngredientID: 999, Amount: 1}}
			},
			field: "ingredients",
			msg:   "unknown ingredient",
		},
		{
			name:   "zero cooking time",
			mutate: func(_ *env, cmd *CreateRecipeCommand) { cmd.CookingTime = 0 },
			field:  "cooking_time",
			msg:    "must be at least 1 minute",
		},
		{
			name:   "blank name",
			mutate: func(_ *env, cmd *CreateRecipeCommand) { cmd.Name = "  " },
			field:  "name",
			msg:    "is required",
		},
		{
			name:   "long name",
			mutate: func(_ *env, cmd *CreateRecipeCommand) { cmd.Name = strings.Repeat("a", 257) },
			field:  "name",
			msg:    "must not exceed 256 characters",
		},
		{
			name:   "no text",
			mutate: func(_ *env, cmd *CreateRecipeCommand) { cmd.Text = "" },
			field:  "text",
			msg:    "is required",
		},
		{
			name:   "no image",
			mutate: func(_ *env, cmd *CreateRecipeCommand) { cmd.Image = "" },
			field:  "image",
			msg:    "is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			cmd := e.validCreate()
			tt.mutate(e, &cmd)

			_, err := e.createHandler().Handle(context.Background(), cmd)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.msg, detail(t, err, tt.field))
			assert.Zero(t, e.store.RecipeCount(), "nothing is persisted")
			assert.Empty(t, e.images.Saved)
			assert.Empty(t, e.events.Types())
		})
	}
}

func TestCreateRecipeRequiresAuthor(t *testing.T) {
	e := newEnv(t)
	cmd := e.validCreate()
	cmd.AuthorID = 0

	_, err := e.createHandler().Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestCreateRecipeSurvivesPublishFailure(t *testing.T) {
	e := newEnv(t)
	e.events.Err = testutil.ErrBrokerDown

	recipe, err := e.createHandler().Handle(context.Background(), e.validCreate())
	require.NoError(t, err)
	assert.NotZero(t, recipe.ID)
	assert.Equal(t, 1, e.store.RecipeCount())
}

func TestUpdateRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces supplied collections and keeps absent ones", func(t *testing.T) {
		e := newEnv(t)
		recipe := e.mustCreate(t)
		h := NewUpdateRecipeHandler(e.store.Recipes(), e.store.Tags(), e.store.Ingredients(), e.images, e.events)

		name := "Crepes"
		require.NoError(t, h.Handle(ctx, UpdateRecipeCommand{
			ActorID:  e.alice.ID,
			RecipeID: recipe.ID,
			Name:     &name,
			TagIDs:   []uint{e.dinner.ID},
		}))

		stored, err := e.store.Recipes().FindByID(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, "Crepes", stored.Name)
		require.Len(t, stored.Tags, 1)
		assert.Equal(t, e.dinner.ID, stored.Tags[0].ID, "old tags are gone")
		assert.Len(t, stored.Ingredients, 2, "ingredients untouched")
		assert.Equal(t, []string{domain.EventRecipeCreated, domain.EventRecipeUpdated}, e.events.Types())
	})

	t.Run("replaces ingredients", func(t *testing.T) {
		e := newEnv(t)
		recipe := e.mustCreate(t)
		h := NewUpdateRecipeHandler(e.store.Recipes(), e.store.Tags(), e.store.Ingredients(), e.images, e.events)

		require.NoError(t, h.Handle(ctx, UpdateRecipeCommand{
			ActorID:     e.alice.ID,
			RecipeID:    recipe.ID,
			Ingredients: []domain.IngredientLine{{IngredientID: e.flour.ID, Amount: 50}},
		}))

		stored, err := e.store.Recipes().FindByID(ctx, recipe.ID)
		require.NoError(t, err)
		require.Len(t, stored.Ingredients, 1)
		assert.Equal(t, e.flour.ID, stored.Ingredients[0].IngredientID)
		assert.Equal(t, 50, stored.Ingredients[0].Amount)
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		e := newEnv(t)
		recipe := e.mustCreate(t)
		h := NewUpdateRecipeHandler(e.store.Recipes(), e.store.Tags(), e.store.Ingredients(), e.images, e.events)

		name := "Stolen"
		err := h.Handle(ctx, UpdateRecipeCommand{ActorID: e.bob.ID, RecipeID: recipe.ID, Name: &name})
		assert.ErrorIs(t, err, apperr.ErrForbidden)

		stored, err := e.store.Recipes().FindByID(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pancakes", stored.Name)
	})

	t.Run("missing recipe", func(t *testing.T) {
		e := newEnv(t)
		h := NewUpdateRecipeHandler(e.store.Recipes(), e.store.Tags(), e.store.Ingredients(), e.images, e.events)

		err := h.Handle(ctx, UpdateRecipeCommand{ActorID: e.alice.ID, RecipeID: 404})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("explicitly empty tags are rejected", func(t *testing.T) {
		e := newEnv(t)
		recipe := e.mustCreate(t)
		h := NewUpdateRecipeHandler(e.store.Recipes(), e.store.Tags(), e.store.Ingredients(), e.images, e.events)

		err := h.Handle(ctx, UpdateRecipeCommand{ActorID: e.alice.ID, RecipeID: recipe.ID, TagIDs: []uint{}})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("new image replaces and removes the old one", func(t *testing.T) {
		e := newEnv(t)
		recipe := e.mustCreate(t)
		h := NewUpdateRecipeHandler(e.store.Recipes(), e.store.Tags(), e.store.Ingredients(), e.images, e.events)

		image := testutil.PNGDataURI
		require.NoError(t, h.Handle(ctx, UpdateRecipeCommand{ActorID: e.alice.ID, RecipeID: recipe.ID, Image: &image}))

		stored, err := e.store.Recipes().FindByID(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, "/media/recipes/images/2.png", stored.Image)
		assert.Equal(t, []string{"/media/recipes/images/1.png"}, e.images.Removed)
	})
}

func TestDeleteRecipe(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	recipe := e.mustCreate(t)
	h := NewDeleteRecipeHandler(e.store.Recipes(), e.images, e.events)

	err := h.Handle(ctx, DeleteRecipeCommand{ActorID: e.bob.ID, RecipeID: recipe.ID})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, h.Handle(ctx, DeleteRecipeCommand{ActorID: e.alice.ID, RecipeID: recipe.ID}))
	assert.Zero(t, e.store.RecipeCount())
	assert.Equal(t, []string{recipe.Image}, e.images.Removed)

	err = h.Handle(ctx, DeleteRecipeCommand{ActorID: e.alice.ID, RecipeID: recipe.ID})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMembership(t *testing.T) {
	ctx := context.Background()

	for _, kind := range []domain.MembershipKind{domain.KindFavorite, domain.KindShoppingCart} {
		t.Run(string(kind), func(t *testing.T) {
			e := newEnv(t)
			recipe := e.mustCreate(t)

			relation := e.store.Favorites()
			if kind == domain.KindShoppingCart {
				relation = e.store.ShoppingCart()
			}
			h := NewMembershipHandler(relation, e.store.Recipes(), e.events)
			cmd := MembershipCommand{UserID: e.bob.ID, RecipeID: recipe.ID}

			short, err := h.Add(ctx, cmd)
			require.NoError(t, err)
			assert.Equal(t, domain.RecipeShort{ID: recipe.ID, Name: "Pancakes", Image: recipe.Image, CookingTime: 20}, *short)

			_, err = h.Add(ctx, cmd)
			assert.ErrorIs(t, err, apperr.ErrConflict)

			contains, err := relation.Contains(ctx, e.bob.ID, []uint{recipe.ID})
			require.NoError(t, err)
			assert.True(t, contains[recipe.ID])

			require.NoError(t, h.Remove(ctx, cmd))
			require.NoError(t, h.Remove(ctx, cmd), "removing twice is a no-op")

			exists, err := relation.Exists(ctx, e.bob.ID, recipe.ID)
			require.NoError(t, err)
			assert.False(t, exists)

			_, err = h.Add(ctx, MembershipCommand{UserID: e.bob.ID, RecipeID: 999})
			assert.ErrorIs(t, err, apperr.ErrNotFound)

			assert.Equal(t, []string{domain.EventRecipeCreated, domain.MembershipEventType(kind)}, e.events.Types())
		})
	}
}

func TestSubscriptions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	subscribe := NewSubscribeHandler(e.store.Users(), e.store.Subscriptions(), e.events)
	unsubscribe := NewUnsubscribeHandler(e.store.Users(), e.store.Subscriptions())

	_, err := subscribe.Handle(ctx, SubscribeCommand{SubscriberID: e.bob.ID, AuthorID: e.bob.ID})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = subscribe.Handle(ctx, SubscribeCommand{SubscriberID: e.bob.ID, AuthorID: 999})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	author, err := subscribe.Handle(ctx, SubscribeCommand{SubscriberID: e.bob.ID, AuthorID: e.alice.ID})
	require.NoError(t, err)
	assert.Equal(t, "alice", author.Username)

	_, err = subscribe.Handle(ctx, SubscribeCommand{SubscriberID: e.bob.ID, AuthorID: e.alice.ID})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	require.NoError(t, unsubscribe.Handle(ctx, UnsubscribeCommand{SubscriberID: e.bob.ID, AuthorID: e.alice.ID}))
	err = unsubscribe.Handle(ctx, UnsubscribeCommand{SubscriberID: e.bob.ID, AuthorID: e.alice.ID})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = unsubscribe.Handle(ctx, UnsubscribeCommand{SubscriberID: e.bob.ID, AuthorID: 999})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []string{domain.EventAuthorSubscribed}, e.events.Types())
}

func TestRegisterLoginAndSetPassword(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	v := validation.New()
	tokens := auth.NewTokenManager("test-secret", "foodgram", time.Hour)

	register := NewRegisterUserHandler(e.store.Users(), v)
	login := NewLoginHandler(e.store.Users(), tokens, v)
	setPassword := NewSetPasswordHandler(e.store.Users(), v)

	user, err := register.Handle(ctx, RegisterUserCommand{
		Email: "chef@example.com", Username: "chef", FirstName: "Chef", LastName: "Cook", Password: "first-password",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "first-password", user.Password)

	t.Run("reserved username", func(t *testing.T) {
		_, err := register.Handle(ctx, RegisterUserCommand{
			Email: "me@example.com", Username: "me", FirstName: "M", LastName: "E", Password: "long-enough",
		})
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "must not be me", detail(t, err, "username"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := register.Handle(ctx, RegisterUserCommand{
			Email: "chef@example.com", Username: "other", FirstName: "O", LastName: "T", Password: "long-enough",
		})
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "a user with this email already exists", detail(t, err, "email"))
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := register.Handle(ctx, RegisterUserCommand{
			Email: "other@example.com", Username: "chef", FirstName: "O", LastName: "T", Password: "long-enough",
		})
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "a user with this username already exists", detail(t, err, "username"))
	})

	result, err := login.Handle(ctx, LoginCommand{Email: "chef@example.com", Password: "first-password"})
	require.NoError(t, err)
	claims, err := tokens.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = login.Handle(ctx, LoginCommand{Email: "chef@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = login.Handle(ctx, LoginCommand{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	err = setPassword.Handle(ctx, SetPasswordCommand{UserID: user.ID, CurrentPassword: "nope", NewPassword: "second-password"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "wrong password", detail(t, err, "current_password"))

	require.NoError(t, setPassword.Handle(ctx, SetPasswordCommand{
		UserID: user.ID, CurrentPassword: "first-password", NewPassword: "second-password",
	}))
	_, err = login.Handle(ctx, LoginCommand{Email: "chef@example.com", Password: "second-password"})
	assert.NoError(t, err)
}

func TestLogoutWithoutRedis(t *testing.T) {
	h := NewLogoutHandler(auth.NewDenylist(nil))
	err := h.Handle(context.Background(), LogoutCommand{UserID: 1, TokenID: "id", ExpiresAt: time.Now().Add(time.Hour)})
	assert.NoError(t, err)
}

func TestSeedTags(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	h := NewSeedTagsHandler(e.store.Tags(), validation.New())

	err := h.Handle(ctx, SeedTagsCommand{Tags: []TagSeed{{Name: "Lunch", Color: "orange", Slug: "lunch"}}})
	require.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, h.Handle(ctx, SeedTagsCommand{Tags: []TagSeed{
		{Name: "Morning", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Lunch", Color: "#8775D2", Slug: "lunch"},
	}}))

	tags, err := e.store.Tags().FindAll(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"Dinner", "Lunch", "Morning"}, names)
}
