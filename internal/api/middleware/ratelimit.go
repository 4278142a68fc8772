package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/maxmsylvain/Vanish/pkg/response"
)

// RateLimit throttles per client IP. perMin is the sustained allowance;
// bursts up to perMin are tolerated. Zero disables the limiter.
func RateLimit(perMin float64) gin.HandlerFunc {
	if perMin <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			burst := int(perMin)
			if burst < 1 {
				burst = 1
			}
			l = rate.NewLimiter(rate.Limit(perMin/60), burst)
			limiters[ip] = l
		}
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			response.TooManyRequests(c, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}
