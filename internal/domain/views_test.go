package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShoppingListRender(t *testing.T) {
	list := ShoppingList{Lines: []ShoppingListLine{
		{Name: "eggs", MeasurementUnit: "pcs", TotalAmount: 5},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 100},
	}}

	assert.Equal(t, "Shopping list: \neggs (pcs) - 5\nflour (g) - 100", list.Render())
}

func TestShoppingListRenderEmpty(t *testing.T) {
	assert.Equal(t, "Shopping list: \n", ShoppingList{}.Render())
}

func TestNewRecipeShort(t *testing.T) {
	r := Recipe{ID: 3, Name: "Soup", Image: "/media/recipes/images/a.png", CookingTime: 20, Description: "hidden"}

	assert.Equal(t, RecipeShort{ID: 3, Name: "Soup", Image: "/media/recipes/images/a.png", CookingTime: 20}, NewRecipeShort(r))
}

func TestMembershipEventType(t *testing.T) {
	assert.Equal(t, EventRecipeFavorited, MembershipEventType(KindFavorite))
	assert.Equal(t, EventRecipeCarted, MembershipEventType(KindShoppingCart))
}
