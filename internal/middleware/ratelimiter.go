package middleware

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RouteLogin names the login endpoint policy.
const RouteLogin = "login"

// RatePolicy allows Limit requests per client IP within Window.
type RatePolicy struct {
	Limit  int
	Window time.Duration
}

func (p RatePolicy) enabled() bool {
	return p.Limit > 0 && p.Window > 0
}

// RateLimiter is a fixed-window limiter over Redis counters, with one policy
// per named route. Routes without a policy are not limited.
type RateLimiter struct {
	rdb      *redis.Client
	policies map[string]RatePolicy
}

func NewRateLimiter(rdb *redis.Client, policies map[string]RatePolicy) *RateLimiter {
	return &RateLimiter{rdb: rdb, policies: policies}
}

// Limit enforces the policy registered for route. Requests pass through
// when Redis is unreachable.
func (rl *RateLimiter) Limit(route string) gin.HandlerFunc {
	policy, ok := rl.policies[route]
	if !ok || !policy.enabled() {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := "ratelimit:" + route + ":" + c.ClientIP()

		// The window opens with the first request and is never extended.
		pipe := rl.rdb.TxPipeline()
		pipe.SetNX(c, key, 0, policy.Window)
		hits := pipe.Incr(c, key)
		ttl := pipe.TTL(c, key)
		if _, err := pipe.Exec(c); err != nil {
			log.Printf("rate limiter %s: %v", route, err)
			c.Next()
			return
		}

		remaining := int64(policy.Limit) - hits.Val()
		c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(remaining, 0), 10))

		if remaining < 0 {
			retry := int(math.Ceil(ttl.Val().Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
				"code":  "rate_limited",
			})
			return
		}
		c.Next()
	}
}
