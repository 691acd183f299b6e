// Package http exposes the foodgram API over gorilla/mux.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vanchez121994/foodgram-project-react/internal/usecase/command"
	"github.com/vanchez121994/foodgram-project-react/internal/usecase/query"
)

// Commands groups the write side handlers
type Commands struct {
	CreateRecipe *command.CreateRecipeHandler
	UpdateRecipe *command.UpdateRecipeHandler
	DeleteRecipe *command.DeleteRecipeHandler
	Favorite     *command.MembershipHandler
	ShoppingCart *command.MembershipHandler
	Subscribe    *command.SubscribeHandler
	Unsubscribe  *command.UnsubscribeHandler
	Register     *command.RegisterUserHandler
	Login        *command.LoginHandler
	Logout       *command.LogoutHandler
	SetPassword  *command.SetPasswordHandler
}

// Queries groups the read side handlers
type Queries struct {
	GetRecipe     *query.GetRecipeHandler
	ListRecipes   *query.ListRecipesHandler
	ShoppingList  *query.ShoppingListHandler
	Catalog       *query.CatalogHandler
	Users         *query.UserQueryHandler
	Subscriptions *query.SubscriptionQueryHandler
}

// Handler serves every /api route using CQRS handlers
type Handler struct {
	commands Commands
	queries  Queries

	auth         *Authenticator
	loginLimiter *RateLimiter
	catalogCache *ResponseCache
	metrics      *Metrics
	pageSize     PageSize
}

// NewHandler creates the API handler
func NewHandler(
	commands Commands,
	queries Queries,
	authenticator *Authenticator,
	loginLimiter *RateLimiter,
	catalogCache *ResponseCache,
	metrics *Metrics,
	pageSize PageSize,
) *Handler {
	return &Handler{
		commands:     commands,
		queries:      queries,
		auth:         authenticator,
		loginLimiter: loginLimiter,
		catalogCache: catalogCache,
		metrics:      metrics,
		pageSize:     pageSize,
	}
}

func (h *Handler) handle(router *mux.Router, path string, fn http.HandlerFunc, methods ...string) {
	router.HandleFunc(path, h.metrics.metricsMiddleware(path, fn)).Methods(methods...)
}

// RegisterRoutes mounts the API on router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	required := h.auth.AuthMiddleware
	optional := h.auth.OptionalAuthMiddleware

	// Users and auth
	h.handle(router, "/api/users/", h.Register, http.MethodPost)
	h.handle(router, "/api/users/", optional(h.ListUsers), http.MethodGet)
	h.handle(router, "/api/users/me/", required(h.Me), http.MethodGet)
	h.handle(router, "/api/users/set_password/", required(h.SetPassword), http.MethodPost)
	h.handle(router, "/api/users/subscriptions/", required(h.ListSubscriptions), http.MethodGet)
	h.handle(router, "/api/users/{id:[0-9]+}/", optional(h.GetUser), http.MethodGet)
	h.handle(router, "/api/users/{id:[0-9]+}/subscribe/", required(h.Subscribe), http.MethodPost)
	h.handle(router, "/api/users/{id:[0-9]+}/subscribe/", required(h.Unsubscribe), http.MethodDelete)
	h.handle(router, "/api/auth/token/login/", h.loginLimiter.Middleware(h.Login), http.MethodPost)
	h.handle(router, "/api/auth/token/logout/", required(h.Logout), http.MethodPost)

	// Catalog
	cached := h.catalogCache.Middleware
	h.handle(router, "/api/tags/", cached(h.ListTags), http.MethodGet)
	h.handle(router, "/api/tags/{id:[0-9]+}/", cached(h.GetTag), http.MethodGet)
	h.handle(router, "/api/ingredients/", cached(h.ListIngredients), http.MethodGet)
	h.handle(router, "/api/ingredients/{id:[0-9]+}/", cached(h.GetIngredient), http.MethodGet)

	// Recipes
	h.handle(router, "/api/recipes/", optional(h.ListRecipes), http.MethodGet)
	h.handle(router, "/api/recipes/", required(h.CreateRecipe), http.MethodPost)
	h.handle(router, "/api/recipes/download_shopping_cart/", required(h.DownloadShoppingCart), http.MethodGet)
	h.handle(router, "/api/recipes/{id:[0-9]+}/", optional(h.GetRecipe), http.MethodGet)
	h.handle(router, "/api/recipes/{id:[0-9]+}/", required(h.UpdateRecipe), http.MethodPatch)
	h.handle(router, "/api/recipes/{id:[0-9]+}/", required(h.DeleteRecipe), http.MethodDelete)
	h.handle(router, "/api/recipes/{id:[0-9]+}/favorite/", required(h.membershipAdd(h.commands.Favorite)), http.MethodPost)
	h.handle(router, "/api/recipes/{id:[0-9]+}/favorite/", required(h.membershipRemove(h.commands.Favorite)), http.MethodDelete)
	h.handle(router, "/api/recipes/{id:[0-9]+}/shopping_cart/", required(h.membershipAdd(h.commands.ShoppingCart)), http.MethodPost)
	h.handle(router, "/api/recipes/{id:[0-9]+}/shopping_cart/", required(h.membershipRemove(h.commands.ShoppingCart)), http.MethodDelete)
}

// HealthCheck handles GET /health
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string}
// @Router /health [get]
func HealthCheck(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func pathID(r *http.Request, name string) (uint, error) {
	return query.ParseID(name, mux.Vars(r)["id"])
}
