package main

// @title Foodgram API
// @version 1.0
// @description Recipe sharing service: recipes, favorites, shopping cart and author subscriptions

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description Type "Token" or "Bearer" followed by a space and the auth token.

// @tag.name Auth
// @tag.description Login and logout

// @tag.name Users
// @tag.description Registration, profiles and subscriptions

// @tag.name Recipes
// @tag.description Recipes, favorites and shopping cart

// @tag.name Catalog
// @tag.description Tags and ingredients

// @tag.name Health
// @tag.description Health check endpoints
