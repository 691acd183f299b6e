package http

import (
	"net/http"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/usecase/command"
	"github.com/vanchez121994/foodgram-project-react/internal/usecase/query"
)

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// Register handles POST /api/users/
// @Summary Register a new user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body command.RegisterUserCommand true "Account data"
// @Success 201 {object} domain.RegisteredUser
// @Failure 400 {object} ErrorResponse
// @Router /api/users/ [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd command.RegisterUserCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.commands.Register.Handle(r.Context(), cmd)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, domain.RegisteredUser{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// ListUsers handles GET /api/users/
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} PaginatedResponse[domain.UserProfile]
// @Router /api/users/ [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageSize.parsePage(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.queries.Users.ListUsers(r.Context(), ViewerID(r.Context()), page.limit, page.offset())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, paginate(r, page, result))
}

// GetUser handles GET /api/users/{id}/
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.UserProfile
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id}/ [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	profile, err := h.queries.Users.GetUser(r.Context(), ViewerID(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// Me handles GET /api/users/me/
// @Summary Current user profile
// @Tags Users
// @Security TokenAuth
// @Produce json
// @Success 200 {object} domain.UserProfile
// @Failure 401 {object} ErrorResponse
// @Router /api/users/me/ [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	viewer := ViewerID(r.Context())
	profile, err := h.queries.Users.GetUser(r.Context(), viewer, viewer)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// SetPassword handles POST /api/users/set_password/
// @Summary Change the current password
// @Tags Users
// @Security TokenAuth
// @Accept json
// @Param request body command.SetPasswordCommand true "Passwords"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /api/users/set_password/ [post]
func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var cmd command.SetPasswordCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.UserID = ViewerID(r.Context())

	if err := h.commands.SetPassword.Handle(r.Context(), cmd); err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

// Login handles POST /api/auth/token/login/
// @Summary Obtain an auth token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body command.LoginCommand true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/auth/token/login/ [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd command.LoginCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.commands.Login.Handle(r.Context(), cmd)
	if err != nil {
		h.metrics.loginAttempts.WithLabelValues("rejected").Inc()
		respondError(w, r, err)
		return
	}
	h.metrics.loginAttempts.WithLabelValues("success").Inc()

	respondJSON(w, http.StatusOK, TokenResponse{AuthToken: result.Token})
}

// Logout handles POST /api/auth/token/logout/
// @Summary Revoke the current token
// @Tags Auth
// @Security TokenAuth
// @Success 204
// @Router /api/auth/token/logout/ [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	if err := h.commands.Logout.Handle(r.Context(), command.LogoutCommand{
		UserID:    id.UserID,
		TokenID:   id.TokenID,
		ExpiresAt: id.ExpiresAt,
	}); err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

// ListSubscriptions handles GET /api/users/subscriptions/
// @Summary Authors the current user follows
// @Tags Users
// @Security TokenAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes per author"
// @Success 200 {object} PaginatedResponse[domain.AuthorView]
// @Failure 400 {object} ErrorResponse
// @Router /api/users/subscriptions/ [get]
func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageSize.parsePage(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	recipesLimit, err := query.ParseRecipesLimit(r.URL.Query().Get("recipes_limit"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.queries.Subscriptions.ListSubscriptions(r.Context(), query.SubscriptionsQuery{
		SubscriberID: ViewerID(r.Context()),
		RecipesLimit: recipesLimit,
		Limit:        page.limit,
		Offset:       page.offset(),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, paginate(r, page, result))
}

// Subscribe handles POST /api/users/{id}/subscribe/
// @Summary Follow an author
// @Tags Users
// @Security TokenAuth
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Recipes in the response"
// @Success 201 {object} domain.AuthorView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/users/{id}/subscribe/ [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	recipesLimit, err := query.ParseRecipesLimit(r.URL.Query().Get("recipes_limit"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	subscriber := ViewerID(r.Context())
	if _, err := h.commands.Subscribe.Handle(r.Context(), command.SubscribeCommand{
		SubscriberID: subscriber,
		AuthorID:     authorID,
	}); err != nil {
		respondError(w, r, err)
		return
	}
	h.metrics.subscriptions.WithLabelValues("subscribe").Inc()

	view, err := h.queries.Subscriptions.GetAuthor(r.Context(), query.AuthorQuery{
		ViewerID:     subscriber,
		AuthorID:     authorID,
		RecipesLimit: recipesLimit,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// Unsubscribe handles DELETE /api/users/{id}/subscribe/
// @Summary Stop following an author
// @Tags Users
// @Security TokenAuth
// @Param id path int true "Author ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/users/{id}/subscribe/ [delete]
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.commands.Unsubscribe.Handle(r.Context(), command.UnsubscribeCommand{
		SubscriberID: ViewerID(r.Context()),
		AuthorID:     authorID,
	}); err != nil {
		respondError(w, r, err)
		return
	}
	h.metrics.subscriptions.WithLabelValues("unsubscribe").Inc()

	respondNoContent(w)
}
