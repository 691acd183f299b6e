package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/pkg/auth"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller of a request
type Identity struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

// ViewerID returns the authenticated user id of ctx, or 0 for anonymous callers
func ViewerID(ctx context.Context) uint {
	if id, ok := ctx.Value(identityKey).(Identity); ok {
		return id.UserID
	}
	return 0
}

func identityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Authenticator resolves the caller from the Authorization header.
// Both "Token <jwt>" and "Bearer <jwt>" are accepted.
type Authenticator struct {
	tokens   *auth.TokenManager
	denylist *auth.Denylist
	users    domain.UserRepository
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(tokens *auth.TokenManager, denylist *auth.Denylist, users domain.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, denylist: denylist, users: users}
}

var errNoCredentials = errors.New("no credentials")

// AuthMiddleware rejects requests without a valid token of an active user
func (a *Authenticator) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := a.identify(r)
		if errors.Is(err, errNoCredentials) {
			respondError(w, r, apperr.Unauthorized("authentication credentials were not provided"))
			return
		}
		if err != nil {
			respondError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is present
// and otherwise continues anonymously.
func (a *Authenticator) OptionalAuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := a.identify(r)
		if err == nil {
			logger.Debug(r.Context()).Uint("user_id", id.UserID).Msg("Optional auth: user identified")
			r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
		} else if !errors.Is(err, errNoCredentials) && apperr.CodeOf(err) == apperr.CodeInternal {
			respondError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (a *Authenticator) identify(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, errNoCredentials
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !(strings.EqualFold(parts[0], "Token") || strings.EqualFold(parts[0], "Bearer")) {
		logger.Warn(r.Context()).Msg("Invalid authorization header format")
		return Identity{}, apperr.Unauthorized("invalid authorization header format")
	}

	claims, err := a.tokens.ValidateToken(parts[1])
	if err != nil {
		logger.Warn(r.Context()).Err(err).Msg("Invalid token")
		return Identity{}, apperr.Unauthorized("invalid token")
	}

	revoked, err := a.denylist.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		return Identity{}, apperr.Internal(err)
	}
	if revoked {
		return Identity{}, apperr.Unauthorized("token has been revoked")
	}

	user, err := a.users.FindByID(r.Context(), claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return Identity{}, apperr.Unauthorized("user not found")
	}
	if err != nil {
		return Identity{}, apperr.Internal(err)
	}
	if !user.IsActive {
		logger.Warn(r.Context()).Uint("user_id", user.ID).Msg("User account is disabled")
		return Identity{}, apperr.Unauthorized("user account is disabled")
	}

	return Identity{UserID: user.ID, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}
