package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/page"
)

// NewLimiterStore keeps counters in redis when a client is given and in
// process memory otherwise.
func NewLimiterStore(client *redis.Client, logger *logrus.Logger) limiter.Store {
	if client == nil {
		return memory.NewStore()
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   "hrm:limiter",
		MaxRetry: 3,
	})
	if err != nil {
		logger.WithError(err).Warn("failed to create redis store for rate limiting, falling back to memory")
		return memory.NewStore()
	}
	return store
}

// LoginRateLimit throttles login attempts per client ip. rate uses the
// limiter format, e.g. "10-M" for ten a minute.
func LoginRateLimit(rate string, store limiter.Store, renderer *page.Renderer) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse login rate limit %q: %w", rate, err)
	}
	instance := limiter.New(store, parsed)

	return mgin.NewMiddleware(instance,
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return "login:" + c.ClientIP()
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many login attempts"})
				return
			}
			renderer.Back(c, map[string]string{
				"email": "too many login attempts, please try again later",
			}, "")
		}),
	), nil
}
