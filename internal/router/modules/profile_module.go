package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/devlinkhq/devlink-api/internal/interface/http"
	"github.com/devlinkhq/devlink-api/internal/interface/middleware"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

// ProfileModule wires profile CRUD, the experience/education list
// mutations, profile search, the github repo proxy and account delete.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	// Public reads
	rg.GET("/profile", m.Handler.List)
	rg.GET("/profile/user/:user_id", m.Handler.GetByUserID)
	rg.GET("/profile/github/:username", m.Handler.GithubRepos)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/profile/me", m.Handler.Me)
		auth.GET("/profile/search", m.Handler.Search)
		auth.POST("/profile", m.Handler.Upsert)
		auth.DELETE("/profile", m.Handler.DeleteAccount)
		auth.PUT("/profile/experience", m.Handler.AddExperience)
		auth.DELETE("/profile/experience/:exp_id", m.Handler.RemoveExperience)
		auth.PUT("/profile/education", m.Handler.AddEducation)
		auth.DELETE("/profile/education/:edu_id", m.Handler.RemoveEducation)
	}
}
