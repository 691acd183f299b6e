package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/validation"
	"github.com/vanchez121994/foodgram-project-react/pkg/auth"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// RegisterUserCommand represents a sign-up request
type RegisterUserCommand struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username,ne=me"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// RegisterUserHandler handles sign-up
type RegisterUserHandler struct {
	users     domain.UserRepository
	validator *validation.Validator
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(users domain.UserRepository, validator *validation.Validator) *RegisterUserHandler {
	return &RegisterUserHandler{users: users, validator: validator}
}

// Handle validates the form, rejects taken credentials and stores the user with a bcrypt hash
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	cmd.Email = strings.TrimSpace(cmd.Email)
	cmd.Username = strings.TrimSpace(cmd.Username)
	if err := h.validator.Validate(cmd); err != nil {
		return nil, err
	}

	if err := h.ensureFree(ctx, cmd); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &domain.User{
		Email:     cmd.Email,
		Username:  cmd.Username,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Password:  hash,
		IsActive:  true,
	}
	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.Validation("a user with this email or username already exists").WithCause(err)
		}
		return nil, apperr.Internal(err)
	}

	logger.Info(ctx).Uint("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}

func (h *RegisterUserHandler) ensureFree(ctx context.Context, cmd RegisterUserCommand) error {
	if _, err := h.users.FindByEmail(ctx, cmd.Email); err == nil {
		return apperr.FieldValidation("email", "a user with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return apperr.Internal(err)
	}

	if _, err := h.users.FindByUsername(ctx, cmd.Username); err == nil {
		return apperr.FieldValidation("username", "a user with this username already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return apperr.Internal(err)
	}
	return nil
}

// LoginCommand represents a token request
type LoginCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued token
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    uint
}

// LoginHandler exchanges credentials for a token
type LoginHandler struct {
	users     domain.UserRepository
	tokens    *auth.TokenManager
	validator *validation.Validator
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(users domain.UserRepository, tokens *auth.TokenManager, validator *validation.Validator) *LoginHandler {
	return &LoginHandler{users: users, tokens: tokens, validator: validator}
}

// Handle verifies the credentials and issues a token
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := h.validator.Validate(cmd); err != nil {
		return nil, err
	}

	invalid := apperr.Unauthorized("unable to log in with provided credentials")

	user, err := h.users.FindByEmail(ctx, strings.TrimSpace(cmd.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !user.IsActive || !auth.CheckPassword(user.Password, cmd.Password) {
		logger.Warn(ctx).Uint("user_id", user.ID).Msg("Rejected login attempt")
		return nil, invalid
	}

	token, claims, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, UserID: user.ID}, nil
}

// LogoutCommand identifies the token to revoke
type LogoutCommand struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

// LogoutHandler revokes tokens
type LogoutHandler struct {
	denylist *auth.Denylist
}

// NewLogoutHandler creates a new logout handler
func NewLogoutHandler(denylist *auth.Denylist) *LogoutHandler {
	return &LogoutHandler{denylist: denylist}
}

// Handle revokes the token until its expiry. Without Redis the token stays valid.
func (h *LogoutHandler) Handle(ctx context.Context, cmd LogoutCommand) error {
	if !h.denylist.Enabled() {
		logger.Warn(ctx).Uint("user_id", cmd.UserID).Msg("Token revocation disabled, token stays valid until expiry")
		return nil
	}
	if err := h.denylist.Revoke(ctx, cmd.TokenID, cmd.ExpiresAt); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// SetPasswordCommand represents a password change
type SetPasswordCommand struct {
	UserID          uint   `json:"-"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// SetPasswordHandler handles password changes
type SetPasswordHandler struct {
	users     domain.UserRepository
	validator *validation.Validator
}

// NewSetPasswordHandler creates a new set password handler
func NewSetPasswordHandler(users domain.UserRepository, validator *validation.Validator) *SetPasswordHandler {
	return &SetPasswordHandler{users: users, validator: validator}
}

// Handle replaces the password hash after checking the current password
func (h *SetPasswordHandler) Handle(ctx context.Context, cmd SetPasswordCommand) error {
	if err := h.validator.Validate(cmd); err != nil {
		return err
	}

	user, err := h.users.FindByID(ctx, cmd.UserID)
	if err != nil {
		return storeError(err, "user not found")
	}
	if !auth.CheckPassword(user.Password, cmd.CurrentPassword) {
		return apperr.FieldValidation("current_password", "wrong password")
	}

	hash, err := auth.HashPassword(cmd.NewPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := h.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return storeError(err, "user not found")
	}

	logger.Info(ctx).Uint("user_id", user.ID).Msg("Password changed")
	return nil
}
