package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/InteliJR/pricehub/internal/config"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDisabledLimiterAllows(t *testing.T) {
	limiter, err := NewSimulateLimiter(config.Config{}, zap.NewNop())
	require.NoError(t, err)
	require.False(t, limiter.Enabled())

	res := limiter.Allow(context.Background(), "42")
	require.True(t, res.Allowed)

	var nilLimiter *SimulateLimiter
	require.True(t, nilLimiter.Allow(context.Background(), "42").Allowed)
}

func TestEnabledLimiterRequiresPositiveRate(t *testing.T) {
	_, err := NewSimulateLimiter(config.Config{
		RateLimit: config.RateLimitConfig{Enabled: true, RedisAddr: "localhost:6379"},
	}, zap.NewNop())
	require.Error(t, err)
}

func TestBucketTTL(t *testing.T) {
	require.Equal(t, 8*time.Second, bucketTTL(5, 20))
	require.Equal(t, time.Second, bucketTTL(1000, 1))
	require.Equal(t, time.Second, bucketTTL(0, 1))
}

func TestRetryAfter(t *testing.T) {
	require.Zero(t, retryAfter(true, 0, 5))
	require.Equal(t, 100*time.Millisecond, retryAfter(false, 0.5, 5))
}

func TestScriptValueParsing(t *testing.T) {
	require.Equal(t, int64(1), toInt(int64(1)))
	require.Equal(t, int64(1), toInt("1"))
	require.InDelta(t, 3.25, toFloat("3.25"), 1e-9)
	require.InDelta(t, 2.0, toFloat(int64(2)), 1e-9)
	require.Zero(t, toFloat(nil))
}

// fakeScripter answers every script call with a fixed reply.
type fakeScripter struct {
	reply []interface{}
	err   error
	keys  []string
}

func (f *fakeScripter) cmd(ctx context.Context, keys []string) *redis.Cmd {
	f.keys = append(f.keys, keys...)
	cmd := redis.NewCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	cmd.SetVal(f.reply)
	return cmd
}

func (f *fakeScripter) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.cmd(ctx, keys)
}

func (f *fakeScripter) EvalSha(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.cmd(ctx, keys)
}

func (f *fakeScripter) EvalRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.cmd(ctx, keys)
}

func (f *fakeScripter) EvalShaRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.cmd(ctx, keys)
}

func (f *fakeScripter) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceCmd(ctx)
}

func (f *fakeScripter) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringCmd(ctx)
}

func TestSimulateLimiterAllowsWithinBurst(t *testing.T) {
	client := &fakeScripter{reply: []interface{}{int64(1), "19", int64(1700000000000)}}
	limiter := NewSimulateLimiterWithClient(client, 5, 20, zap.NewNop())

	res := limiter.Allow(context.Background(), "42")
	require.True(t, res.Allowed)
	require.Equal(t, 20, res.Limit)
	require.Equal(t, 19, res.Remaining)
	require.Equal(t, []string{"pricing:simulate:actor:42"}, client.keys)
}

func TestSimulateLimiterDeniesEmptyBucket(t *testing.T) {
	client := &fakeScripter{reply: []interface{}{int64(0), "0.5", int64(1700000000000)}}
	limiter := NewSimulateLimiterWithClient(client, 5, 20, zap.NewNop())

	res := limiter.Allow(context.Background(), "")
	require.False(t, res.Allowed)
	require.Equal(t, 100*time.Millisecond, res.RetryAfter)
	require.Equal(t, []string{"pricing:simulate:actor:anonymous"}, client.keys)
}

func TestSimulateLimiterFailsOpen(t *testing.T) {
	client := &fakeScripter{err: errors.New("connection refused")}
	limiter := NewSimulateLimiterWithClient(client, 5, 20, zap.NewNop())

	res := limiter.Allow(context.Background(), "42")
	require.True(t, res.Allowed)
}
