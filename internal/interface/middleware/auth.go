package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devlinkhq/devlink-api/pkg/helpers"
	"github.com/devlinkhq/devlink-api/pkg/response"
)

// CtxUserIDKey is where the gate stores the verified identity.
const CtxUserIDKey = "userID"

// TokenHeader carries the session credential on every protected request.
const TokenHeader = "x-auth-token"

// Auth is the gate in front of every protected route. Verification is
// stateless: the token alone proves identity, nothing is looked up.
// A missing header and a bad token are both 401.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "no token, authorization denied", nil)
			c.Abort()
			return
		}
		userID, err := jwt.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "token is not valid", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
