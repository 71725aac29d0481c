package server

import (
	"strings"

	obsctx "github.com/InteliJR/pricehub/internal/observability/context"
	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// ActorContext copies the identity forwarded by the gateway into the request
// context. Authentication happens upstream.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		role := strings.TrimSpace(c.GetHeader(HeaderUserRole))
		if actorID != "" || role != "" {
			ctx := obsctx.WithActor(c.Request.Context(), actorID, role)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func (s *Server) ActorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, _ := obsctx.ActorFromContext(c.Request.Context())
		if actorID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}
