package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/testutil/memstore"
)

type fixture struct {
	store     *memstore.Store
	views     *RecipeViewBuilder
	alice     domain.User
	bob       domain.User
	breakfast domain.Tag
	dinner    domain.Tag
	eggs      domain.Ingredient
	flour     domain.Ingredient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	f := &fixture{
		store: s,
		views: NewRecipeViewBuilder(s.Favorites(), s.ShoppingCart(), s.Subscriptions()),
		alice: domain.User{Email: "alice@example.com", Username: "alice"},
		bob:   domain.User{Email: "bob@example.com", Username: "bob"},
	}
	require.NoError(t, s.Users().Create(context.Background(), &f.alice))
	require.NoError(t, s.Users().Create(context.Background(), &f.bob))
	f.breakfast = s.AddTag("Breakfast", "#E26C2D", "breakfast")
	f.dinner = s.AddTag("Dinner", "#49B64E", "dinner")
	f.eggs = s.AddIngredient("eggs", "pcs")
	f.flour = s.AddIngredient("flour", "g")
	return f
}

func (f *fixture) recipe(t *testing.T, author domain.User, name string, tags []uint, lines ...domain.IngredientLine) domain.Recipe {
	t.Helper()
	r := domain.Recipe{AuthorID: author.ID, Name: name, Image: "/media/x.png", Description: "d", CookingTime: 5}
	require.NoError(t, f.store.Recipes().Create(context.Background(), &r, tags, lines))
	return r
}

func TestGetRecipeView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := f.recipe(t, f.alice, "Omelette", []uint{f.breakfast.ID}, domain.IngredientLine{IngredientID: f.eggs.ID, Amount: 3})
	require.NoError(t, f.store.Favorites().Add(ctx, f.bob.ID, r.ID))
	require.NoError(t, f.store.Subscriptions().Create(ctx, &domain.Subscription{SubscriberID: f.bob.ID, AuthorID: f.alice.ID}))

	h := NewGetRecipeHandler(f.store.Recipes(), f.views)

	view, err := h.Handle(ctx, GetRecipeQuery{ViewerID: f.bob.ID, ID: r.ID})
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	assert.True(t, view.Author.IsSubscribed)
	assert.Equal(t, "alice", view.Author.Username)
	assert.Equal(t, "d", view.Text)
	assert.Equal(t, []domain.RecipeIngredientView{{ID: f.eggs.ID, Name: "eggs", MeasurementUnit: "pcs", Amount: 3}}, view.Ingredients)
	assert.Equal(t, []domain.Tag{f.breakfast}, view.Tags)

	anon, err := h.Handle(ctx, GetRecipeQuery{ID: r.ID})
	require.NoError(t, err)
	assert.False(t, anon.IsFavorited)
	assert.False(t, anon.Author.IsSubscribed)

	_, err = h.Handle(ctx, GetRecipeQuery{ID: 999})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListRecipes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.recipe(t, f.alice, "First", []uint{f.breakfast.ID}, domain.IngredientLine{IngredientID: f.eggs.ID, Amount: 1})
	second := f.recipe(t, f.bob, "Second", []uint{f.dinner.ID}, domain.IngredientLine{IngredientID: f.eggs.ID, Amount: 1})
	require.NoError(t, f.store.Favorites().Add(ctx, f.bob.ID, first.ID))
	require.NoError(t, f.store.ShoppingCart().Add(ctx, f.bob.ID, second.ID))

	h := NewListRecipesHandler(f.store.Recipes(), f.store.Tags(), f.views)
	ids := func(p *Page[domain.RecipeView]) []uint {
		out := []uint{}
		for _, v := range p.Items {
			out = append(out, v.ID)
		}
		return out
	}

	tests := []struct {
		name  string
		query ListRecipesQuery
		want  []uint
	}{
		{name: "all newest first", query: ListRecipesQuery{}, want: []uint{second.ID, first.ID}},
		{name: "by tag", query: ListRecipesQuery{TagSlugs: []string{"breakfast"}}, want: []uint{first.ID}},
		{name: "by author", query: ListRecipesQuery{AuthorID: f.bob.ID}, want: []uint{second.ID}},
		{name: "favorited", query: ListRecipesQuery{ViewerID: f.bob.ID, FavoritedOnly: true}, want: []uint{first.ID}},
		{name: "in cart", query: ListRecipesQuery{ViewerID: f.bob.ID, InCartOnly: true}, want: []uint{second.ID}},
		{name: "anonymous favorited is empty", query: ListRecipesQuery{FavoritedOnly: true}, want: []uint{}},
		{name: "anonymous in cart is empty", query: ListRecipesQuery{InCartOnly: true}, want: []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.Limit = 6
			page, err := h.Handle(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page))
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}

	_, err := h.Handle(ctx, ListRecipesQuery{TagSlugs: []string{"breakfast", "lunch"}, Limit: 6})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, `unknown tag "lunch"`, appErr.Details["tags"])

	page, err := h.Handle(ctx, ListRecipesQuery{ViewerID: f.bob.ID, Limit: 6})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].IsInShoppingCart)
	assert.True(t, page.Items[1].IsFavorited)
}

func TestShoppingList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.recipe(t, f.alice, "A", []uint{f.breakfast.ID},
		domain.IngredientLine{IngredientID: f.eggs.ID, Amount: 2},
		domain.IngredientLine{IngredientID: f.flour.ID, Amount: 100})
	b := f.recipe(t, f.alice, "B", []uint{f.breakfast.ID},
		domain.IngredientLine{IngredientID: f.eggs.ID, Amount: 3})
	require.NoError(t, f.store.ShoppingCart().Add(ctx, f.bob.ID, a.ID))
	require.NoError(t, f.store.ShoppingCart().Add(ctx, f.bob.ID, b.ID))

	h := NewShoppingListHandler(f.store.Recipes())

	list, err := h.Handle(ctx, ShoppingListQuery{UserID: f.bob.ID})
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListLine{
		{Name: "eggs", MeasurementUnit: "pcs", TotalAmount: 5},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 100},
	}, list.Lines)
	assert.Equal(t, "Shopping list: \neggs (pcs) - 5\nflour (g) - 100", list.Render())

	empty, err := h.Handle(ctx, ShoppingListQuery{UserID: f.alice.ID})
	require.NoError(t, err)
	assert.Empty(t, empty.Lines)
	assert.Equal(t, "Shopping list: \n", empty.Render())
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sugar := f.store.AddIngredient("сахар", "г")
	f.store.AddIngredient("соль", "г")
	h := NewCatalogHandler(f.store.Tags(), f.store.Ingredients())

	found, err := h.ListIngredients(ctx, "СА")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, sugar.ID, found[0].ID)

	all, err := h.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	tags, err := h.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Tag{f.breakfast, f.dinner}, tags)

	_, err = h.GetTag(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = h.GetIngredient(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSubscriptionViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, name := range []string{"one", "two", "three"} {
		f.recipe(t, f.alice, name, []uint{f.breakfast.ID}, domain.IngredientLine{IngredientID: f.eggs.ID, Amount: 1})
	}
	require.NoError(t, f.store.Subscriptions().Create(ctx, &domain.Subscription{SubscriberID: f.bob.ID, AuthorID: f.alice.ID}))

	h := NewSubscriptionQueryHandler(f.store.Users(), f.store.Subscriptions(),
		NewAuthorViewBuilder(f.store.Recipes(), f.store.Subscriptions()))

	page, err := h.ListSubscriptions(ctx, SubscriptionsQuery{SubscriberID: f.bob.ID, RecipesLimit: 2, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	author := page.Items[0]
	assert.True(t, author.IsSubscribed)
	assert.Equal(t, int64(3), author.RecipesCount)
	require.Len(t, author.Recipes, 2)
	assert.Equal(t, "three", author.Recipes[0].Name)

	view, err := h.GetAuthor(ctx, AuthorQuery{ViewerID: f.bob.ID, AuthorID: f.alice.ID, RecipesLimit: 0})
	require.NoError(t, err)
	assert.Empty(t, view.Recipes)
	assert.Equal(t, int64(3), view.RecipesCount)

	view, err = h.GetAuthor(ctx, AuthorQuery{ViewerID: f.bob.ID, AuthorID: f.alice.ID, RecipesLimit: NoRecipesLimit})
	require.NoError(t, err)
	assert.Len(t, view.Recipes, 3)
}

func TestUserQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.Subscriptions().Create(ctx, &domain.Subscription{SubscriberID: f.bob.ID, AuthorID: f.alice.ID}))
	h := NewUserQueryHandler(f.store.Users(), f.store.Subscriptions())

	profile, err := h.GetUser(ctx, f.bob.ID, f.alice.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)

	me, err := h.GetUser(ctx, f.bob.ID, f.bob.ID)
	require.NoError(t, err)
	assert.False(t, me.IsSubscribed)

	_, err = h.GetUser(ctx, 0, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	page, err := h.ListUsers(ctx, 0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "bob", page.Items[0].Username)
}

func TestParseParams(t *testing.T) {
	limit, err := ParseRecipesLimit("")
	require.NoError(t, err)
	assert.Equal(t, NoRecipesLimit, limit)

	limit, err = ParseRecipesLimit("3")
	require.NoError(t, err)
	assert.Equal(t, 3, limit)

	for _, bad := range []string{"-1", "abc", "1.5"} {
		_, err := ParseRecipesLimit(bad)
		assert.ErrorIs(t, err, apperr.ErrValidation, bad)
	}

	on, err := ParseFlag("is_favorited", "1")
	require.NoError(t, err)
	assert.True(t, on)
	off, err := ParseFlag("is_favorited", "0")
	require.NoError(t, err)
	assert.False(t, off)
	_, err = ParseFlag("is_favorited", "yes")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = ParseID("author", "0")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	id, err := ParseID("author", "12")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
}
