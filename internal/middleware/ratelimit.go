// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/yamdb/internal/core"
)

const defaultKeyPrefix = "yamdb:rl"

var errRateLimited = errors.New("rate limit exceeded")

type RateLimitConfig struct {
	Limit redis_rate.Limit
	// Prefix namespaces the redis keys. Defaults to "yamdb:rl".
	Prefix  string
	KeyFunc func(*http.Request) string
	// FailOpen lets requests through when neither redis nor the local
	// fallback can answer.
	FailOpen bool
}

// RateLimiter is a GCRA limiter backed by redis. While redis is
// unreachable each process enforces the same limit on its own.
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	config   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	if cfg.Prefix == "" {
		cfg.Prefix = defaultKeyPrefix
	}

	return &RateLimiter{
		limiter:  redis_rate.NewLimiter(rdb),
		fallback: newLocalLimiter(time.Now),
		config:   cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.config.Prefix + ":" + rl.config.KeyFunc(r)

		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if rl.config.FailOpen {
				slog.Warn("rate limiter unavailable, failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			core.JSONError(w, core.NewAppError(
				err,
				"rate limiter unavailable",
				http.StatusServiceUnavailable,
				"SERVICE_UNAVAILABLE",
			))
			return
		}

		setRateLimitHeaders(w, res, rl.config.Limit)

		if res.Allowed == 0 {
			retryAfter := max(int(res.RetryAfter.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSONError(w, core.NewAppError(
				errRateLimited,
				fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter),
				http.StatusTooManyRequests,
				"RATE_LIMITED",
			))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	res, err := rl.limiter.Allow(ctx, key, rl.config.Limit)
	if err == nil {
		return res, nil
	}

	slog.Debug("redis rate limit failed, using local limiter", "error", err)
	return rl.fallback.allow(key, rl.config.Limit)
}

// KeyByIP keys on the client address. The server's RealIP middleware has
// already replaced RemoteAddr with the forwarded address when present.
func KeyByIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

// KeyByIPAndEndpoint buckets anonymous endpoints such as signup and token
// exchange separately per path.
func KeyByIPAndEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":endpoint:" + routePattern(r.URL.Path)
}

// routePattern collapses id segments so /titles/<uuid>/reviews/<uuid>
// shares one bucket across titles. Slugs are kept as they are.
func routePattern(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if _, err := uuid.Parse(part); err == nil {
			parts[i] = "{id}"
			continue
		}
		if _, err := strconv.ParseUint(part, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy",
		fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
}

const (
	sweepInterval = 5 * time.Minute
	idleTTL       = 10 * time.Minute
)

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localLimiter holds one token bucket per key. Idle buckets are swept on
// the first call after each sweep interval.
type localLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*localBucket
	lastSweep time.Time
	now       func() time.Time
}

func newLocalLimiter(now func() time.Time) *localLimiter {
	return &localLimiter{
		buckets:   make(map[string]*localBucket),
		lastSweep: now(),
		now:       now,
	}
}

func (l *localLimiter) allow(
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid local limit %s", limit)
	}

	interval := limit.Period / time.Duration(limit.Rate)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= sweepInterval {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > idleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(rate.Every(interval), limit.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	res := &redis_rate.Result{
		Limit:      limit,
		ResetAfter: interval,
		RetryAfter: -1,
	}
	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	res.Remaining = max(int(b.limiter.TokensAt(now)), 0)

	return res, nil
}

// Per allows rate requests every period with bursts up to burst. A zero
// period means one minute.
func Per(rate, burst int, period time.Duration) redis_rate.Limit {
	if period <= 0 {
		period = time.Minute
	}
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: period,
	}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return Per(rate, burst, time.Minute)
}
