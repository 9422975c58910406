package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limita peticiones por IP con un token bucket por cliente.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	log      zerolog.Logger
	now      func() time.Time
}

// NewRateLimiter perMinute peticiones por minuto con ráfaga igual a perMinute.
func NewRateLimiter(perMinute int, log zerolog.Logger) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		log:      log,
		now:      time.Now,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Handler middleware Fiber. Responde 429 RATE_LIMITED cuando la IP agota su cupo.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if !rl.limiter(key).Allow() {
			rl.log.Warn().Str("ip", key).Str("path", c.Path()).Msg("límite de peticiones superado")
			c.Set(fiber.HeaderRetryAfter, "60")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde"})
		}
		return c.Next()
	}
}

// Cleanup elimina los clientes sin actividad desde hace más de idle.
func (rl *RateLimiter) Cleanup(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-idle)
	for k, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, k)
		}
	}
}

// StartCleanup ejecuta Cleanup cada interval hasta que done se cierre.
func (rl *RateLimiter) StartCleanup(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup(interval)
			case <-done:
				return
			}
		}
	}()
}
