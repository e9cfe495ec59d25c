package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/devlinkhq/devlink-api/internal/interface/http"
	"github.com/devlinkhq/devlink-api/internal/interface/middleware"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

// PostModule wires the post feed and its like/comment mutations.
// Everything here sits behind the auth gate.
type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager) *PostModule {
	return &PostModule{Handler: h, JWT: jwt}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/posts", m.Handler.Create)
		auth.GET("/posts", m.Handler.List)
		auth.GET("/posts/:id", m.Handler.Get)
		auth.DELETE("/posts/:id", m.Handler.Delete)
		auth.PUT("/posts/like/:id", m.Handler.Like)
		auth.PUT("/posts/unlike/:id", m.Handler.Unlike)
		auth.POST("/posts/comment/:id", m.Handler.AddComment)
		auth.DELETE("/posts/comment/:id/:comment_id", m.Handler.RemoveComment)
	}
}
