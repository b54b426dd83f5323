package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopsetu/checklist/internal/controller"
	"github.com/shopsetu/checklist/internal/dto"
	"github.com/shopsetu/checklist/internal/service"
)

// RequireSession authenticates the request from the session cookie (or a
// Bearer token) and stores the claims on the context. Requests without a
// valid session are rejected with 401.
func RequireSession(authService service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ""
		if cookie, err := ctx.Cookie(controller.SessionCookie); err == nil {
			token = cookie
		}
		if token == "" {
			if authz := ctx.GetHeader("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token = strings.TrimSpace(authz[7:])
			}
		}
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Access denied, no valid session"})
			return
		}

		claims, err := authService.ParseSession(token)
		if err != nil {
			log.Debug().Err(err).Msg("Session check failed")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Access denied, no valid session"})
			return
		}

		controller.SetCurrentUser(ctx, claims)
		ctx.Next()
	}
}
