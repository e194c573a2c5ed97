package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Limiter decides whether a client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type visitor struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter is a fixed-window limiter for a single process.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewMemoryLimiter allows limit requests per key per window.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[key]
	if !ok || now.Sub(v.windowStart) >= l.window {
		l.visitors[key] = &visitor{count: 1, windowStart: now}
		return l.limit > 0, nil
	}
	v.count++
	return v.count <= l.limit, nil
}

// Cleanup drops visitors whose window has ended, every window, until ctx
// is done. It returns at once for a non-positive window.
func (l *MemoryLimiter) Cleanup(ctx context.Context) {
	if l.window <= 0 {
		return
	}
	t := time.NewTicker(l.window)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			now := l.now()
			l.mu.Lock()
			for k, v := range l.visitors {
				if now.Sub(v.windowStart) >= l.window {
					delete(l.visitors, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

// RedisLimiter is a fixed-window limiter shared by every process pointing
// at the same Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter connects to url and verifies the connection.
func NewRedisLimiter(ctx context.Context, url string, limit int, window time.Duration) (*RedisLimiter, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisLimiter{client: client, limit: limit, window: window, prefix: "protoquiz:rl:"}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	secs := int64(l.window / time.Second)
	if secs < 1 {
		secs = 1
	}
	bucket := l.prefix + key + ":" + strconv.FormatInt(time.Now().Unix()/secs, 10)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return incr.Val() <= int64(l.limit), nil
}

// Close releases the Redis connection.
func (l *RedisLimiter) Close() error { return l.client.Close() }

// rateLimit rejects clients over the limit with 429. Limiter failures let
// the request through.
func rateLimit(l Limiter, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), clientKey(r))
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter unavailable")
				ok = true
			}
			if !ok {
				respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, "too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the client by address. RealIP runs first, so this
// is the forwarded address when behind a proxy.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
