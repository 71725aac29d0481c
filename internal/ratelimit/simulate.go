package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/InteliJR/pricehub/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keySimulate = "pricing:simulate:actor:%s"

// SimulateLimiter throttles price simulations per actor. A nil or disabled
// limiter allows everything.
type SimulateLimiter struct {
	log     *zap.Logger
	enabled bool
	bucket  *TokenBucket
	rate    float64
	burst   int
}

func NewSimulateLimiter(cfg config.Config, log *zap.Logger) (*SimulateLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return &SimulateLimiter{log: log.Named("rate.limit")}, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.SimulateRate <= 0 || limitCfg.SimulateBurst <= 0 {
		return nil, errors.New("simulate rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return NewSimulateLimiterWithClient(client, limitCfg.SimulateRate, limitCfg.SimulateBurst, log), nil
}

func NewSimulateLimiterWithClient(client redis.Scripter, rate float64, burst int, log *zap.Logger) *SimulateLimiter {
	return &SimulateLimiter{
		log:     log.Named("rate.limit"),
		enabled: client != nil,
		bucket:  NewTokenBucket(client),
		rate:    rate,
		burst:   burst,
	}
}

func (l *SimulateLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// Allow fails open when redis is unreachable; the error is logged, not returned.
func (l *SimulateLimiter) Allow(ctx context.Context, actorID string) *Result {
	if !l.Enabled() {
		return &Result{Allowed: true}
	}
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		actorID = "anonymous"
	}

	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keySimulate, actorID), l.rate, l.burst)
	if err != nil {
		l.log.Warn("simulate rate limit unavailable", zap.String("actor_id", actorID), zap.Error(err))
		return &Result{Allowed: true, Limit: l.burst}
	}
	return res
}
