package domain

import (
	"fmt"
	"strings"
)

// ShoppingListHeader starts every rendered shopping list.
const ShoppingListHeader = "Shopping list: "

// UserProfile is the public view of a user as seen by a viewer.
type UserProfile struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// NewUserProfile builds a profile view.
func NewUserProfile(u User, subscribed bool) UserProfile {
	return UserProfile{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

// RegisteredUser is returned once after sign-up.
type RegisteredUser struct {
	Email     string `json:"email"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RecipeIngredientView is an ingredient line with its ingredient details.
type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is the read shape of a recipe.
type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []Tag                  `json:"tags"`
	Author           UserProfile            `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// RecipeShort is the compact recipe shape used by toggles and subscriptions.
type RecipeShort struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// NewRecipeShort builds the compact view of a recipe.
func NewRecipeShort(r Recipe) RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// AuthorView is a followed author together with their recipes.
type AuthorView struct {
	UserProfile
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// ShoppingList is the aggregated cart of a user.
type ShoppingList struct {
	Lines []ShoppingListLine `json:"lines"`
}

// Render formats the list as plain text, one ingredient per line.
func (l ShoppingList) Render() string {
	rows := make([]string, 0, len(l.Lines))
	for _, line := range l.Lines {
		rows = append(rows, fmt.Sprintf("%s (%s) - %d", line.Name, line.MeasurementUnit, line.TotalAmount))
	}
	return ShoppingListHeader + "\n" + strings.Join(rows, "\n")
}
