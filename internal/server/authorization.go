package server

import (
	obsctx "github.com/InteliJR/pricehub/internal/observability/context"
	"github.com/gin-gonic/gin"
)

func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.authzSvc == nil {
			AbortWithError(c, ErrForbidden)
			return
		}

		ctx := c.Request.Context()
		actorID, role := obsctx.ActorFromContext(ctx)
		if err := s.authzSvc.Authorize(ctx, actorID, role, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
