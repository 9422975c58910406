package http

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Responde429AlAgotarCupo(t *testing.T) {
	rl := NewRateLimiter(3, zerolog.Nop())
	app := fiber.New()
	app.Post("/login", rl.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "petición %d", i+1)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(5, zerolog.Nop())
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.limiter("10.0.0.1")
	now = now.Add(2 * time.Minute)
	rl.limiter("10.0.0.2")

	rl.Cleanup(time.Minute)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

type observed struct {
	method, route string
	status        int
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []observed
}

func (f *fakeObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, observed{method, route, status})
}

func TestMetricsMiddleware_UsaPlantillaDeRuta(t *testing.T) {
	obs := &fakeObserver{}
	app := fiber.New()
	app.Use(MetricsMiddleware(obs))
	app.Get("/api/orders/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders/abc-123", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Len(t, obs.seen, 1)
	assert.Equal(t, observed{"GET", "/api/orders/:id", http.StatusNoContent}, obs.seen[0])
}
