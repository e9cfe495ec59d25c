package router

import "github.com/gin-gonic/gin"

// Module is a feature slice (auth, profile, posts) that knows how to
// mount its own routes, public and gated, on the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
