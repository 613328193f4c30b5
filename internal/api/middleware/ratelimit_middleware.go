package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RateLimitConfig bounds requests per client IP over a sliding window.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// OtpRateLimitConfig is the strict limit for the OTP endpoints: generation
// and verification are both brute-forceable without it.
func OtpRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:  5,
		Window: time.Minute,
	}
}

type tokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(maxTokens, refillRate float64) *tokenBucket {
	return &tokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = min(tb.maxTokens, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *tokenBucket) retryAfter() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.tokens < 1 {
		return int((1-tb.tokens)/tb.refillRate) + 1
	}
	return 0
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

type rateLimiter struct {
	buckets map[string]*tokenBucket
	config  RateLimitConfig
	mu      sync.RWMutex
}

// NewRateLimiter returns a per-IP token bucket limiter.
func NewRateLimiter(config RateLimitConfig) fiber.Handler {
	rl := &rateLimiter{
		buckets: make(map[string]*tokenBucket),
		config:  config,
	}

	// Idle buckets are dropped so the map doesn't grow without bound.
	go func() {
		for range time.Tick(10 * time.Minute) {
			rl.cleanup()
		}
	}()

	return func(c *fiber.Ctx) error {
		bucket := rl.bucket(c.IP())
		if !bucket.allow() {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(bucket.retryAfter()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, slow down",
			})
		}
		return c.Next()
	}
}

func (rl *rateLimiter) bucket(ip string) *tokenBucket {
	rl.mu.RLock()
	bucket, ok := rl.buckets[ip]
	rl.mu.RUnlock()
	if ok {
		return bucket
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if bucket, ok = rl.buckets[ip]; ok {
		return bucket
	}

	refillRate := float64(rl.config.Limit) / rl.config.Window.Seconds()
	bucket = newTokenBucket(float64(rl.config.Limit), refillRate)
	rl.buckets[ip] = bucket
	return bucket
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, bucket := range rl.buckets {
		bucket.mu.Lock()
		idle := time.Since(bucket.lastRefill) > 30*time.Minute
		bucket.mu.Unlock()
		if idle {
			delete(rl.buckets, ip)
		}
	}
}
