package webapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/auth"
	httptransport "github.com/ghelioth/les-bons-artisants-test/internal/transport/http"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxToken  = "token"
)

// AuthMiddleware guards mutation entry points behind a valid bearer
// credential.
func AuthMiddleware(sessions *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		claims, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			httptransport.RespondError(c, http.StatusUnauthorized, "invalid or missing credential", nil)
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxToken, token)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
