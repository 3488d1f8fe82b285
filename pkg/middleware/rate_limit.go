package middleware

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	goredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/gramseva/portal/pkg/httpapi"
)

type RateLimitConfig struct {
	// Rate in limiter format, e.g. "20-H" or "5-M".
	Rate  string
	Store limiter.Store
	// Key prefix separating independent limits that share a store.
	Prefix       string
	RealIPHeader string
}

func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

func NewRedisStore(redisURL string) (limiter.Store, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redisstore.NewStore(goredis.NewClient(opts))
}

// RateLimit limits requests per client IP.
func RateLimit(cfg RateLimitConfig) mux.MiddlewareFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		panic(fmt.Sprintf("rate limit: %v", err))
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	l := limiter.New(store, rate)
	header := cfg.RealIPHeader
	if header == "" {
		header = "X-Real-IP"
	}

	mw := stdlib.NewMiddleware(
		l,
		stdlib.WithKeyGetter(func(r *http.Request) string {
			ip, _ := realIP(r, header)
			return cfg.Prefix + ip
		}),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			httpapi.WriteAPIError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later", nil)
		}),
	)
	return mw.Handler
}
