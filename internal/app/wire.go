//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/vanchez121994/foodgram-project-react/internal/config"
	httpDelivery "github.com/vanchez121994/foodgram-project-react/internal/delivery/http"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/usecase/command"
	"github.com/vanchez121994/foodgram-project-react/internal/validation"
	"github.com/vanchez121994/foodgram-project-react/pkg/auth"
)

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideRepositories,
)

var HandlerSet = wire.NewSet(
	validation.New,
	ProvideCommands,
	ProvideQueries,
	ProvideAuthenticator,
	ProvidePageSize,
	httpDelivery.NewHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	HandlerSet,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	images domain.ImageStore,
	events domain.EventPublisher,
	tokens *auth.TokenManager,
	denylist *auth.Denylist,
	loginLimiter *httpDelivery.RateLimiter,
	catalogCache *httpDelivery.ResponseCache,
	metrics *httpDelivery.Metrics,
	pagination config.PaginationConfig,
) (*httpDelivery.Handler, error) {
	wire.Build(AllHandlersSet)
	return nil, nil
}

// InitializeSeedTagsHandler initializes the tag fixture loader
func InitializeSeedTagsHandler(db *gorm.DB) (*command.SeedTagsHandler, error) {
	wire.Build(RepositorySet, validation.New, ProvideSeedTagsHandler)
	return nil, nil
}
