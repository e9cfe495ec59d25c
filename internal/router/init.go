package router

import (
	"github.com/devlinkhq/devlink-api/internal/application"
	"github.com/devlinkhq/devlink-api/internal/container"
	"github.com/devlinkhq/devlink-api/internal/infrastructure/github"
	pginfra "github.com/devlinkhq/devlink-api/internal/infrastructure/postgres"
	handlers "github.com/devlinkhq/devlink-api/internal/interface/http"
	"github.com/devlinkhq/devlink-api/internal/router/modules"
)

// InitModules builds the repositories, services and handlers from the
// container singletons and registers every feature module. Called once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	posts := pginfra.NewPostRepository(pool)

	authSvc := application.NewAuthService(users, container.GetJWT(), logger)
	profileSvc := application.NewProfileService(profiles, logger, container.GetES(), cfg.ESProfilesIndex)
	postSvc := application.NewPostService(posts, users, logger)
	accountSvc := application.NewAccountService(users, profiles, posts, container.GetRabbitPub(), logger)

	gh := github.NewClient(container.GetRedis(), logger, cfg.GithubToken, cfg.GithubCacheTTL)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), container.GetJWT()))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(profileSvc, accountSvc, gh, logger), container.GetJWT()))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(postSvc, logger), container.GetJWT()))
}
