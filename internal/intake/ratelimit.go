package intake

import (
	"fmt"
	"net/http"
	"time"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limitermw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitMiddleware builds per-client-IP middleware for the public intake
// routes, counting in Redis so the limit holds across instances.
func RateLimitMiddleware(rdb *redis.Client, max int64, period time.Duration) (func(http.Handler) http.Handler, error) {
	store, err := limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix: "fixly:intake:ratelimit",
	})
	if err != nil {
		return nil, fmt.Errorf("intake: limiter store: %w", err)
	}
	instance := limiter.New(store, limiter.Rate{Period: period, Limit: max})
	return limitermw.NewMiddleware(instance).Handler, nil
}
