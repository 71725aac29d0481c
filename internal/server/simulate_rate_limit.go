package server

import (
	"context"
	"math"
	"strconv"
	"strings"

	obsctx "github.com/InteliJR/pricehub/internal/observability/context"
	"github.com/InteliJR/pricehub/internal/observability/logger"
	obsmetrics "github.com/InteliJR/pricehub/internal/observability/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const rateLimitReasonActorRate = "actor-rate"

func (s *Server) SimulateRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.simulateLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := normalizeRateLimitEndpoint(c)
		actorID, _ := obsctx.ActorFromContext(ctx)

		res := s.simulateLimiter.Allow(ctx, actorID)
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))

		if !res.Allowed {
			logger.FromContext(ctx).Warn("simulate rate limit exceeded",
				zap.String("reason", rateLimitReasonActorRate),
				zap.String("endpoint", endpoint),
			)
			recordRateLimitDenied(ctx, endpoint, rateLimitReasonActorRate, s.obsMetrics)

			retry := int(math.Ceil(res.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			AbortWithError(c, ErrRateLimited)
			return
		}

		recordRateLimitAllowed(ctx, endpoint, s.obsMetrics)
		c.Next()
	}
}

func recordRateLimitAllowed(ctx context.Context, endpoint string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitAllowed(ctx, endpoint)
}

func recordRateLimitDenied(ctx context.Context, endpoint, reason string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, endpoint, reason)
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
