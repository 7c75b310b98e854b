package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"sseojum/internal/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type ReadyChecker interface {
	Ready() bool
}

type HealthHandler struct {
	db         Pinger
	cache      Pinger
	classifier ReadyChecker
}

func NewHealthHandler(db Pinger, cache Pinger, classifier ReadyChecker) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, classifier: classifier}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports component readiness. The classifier being degraded does
// not fail the check: the service answers on the generic guideline either
// way.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	data := fiber.Map{
		"database":         "ok",
		"cache":            "ok",
		"classifier_ready": h.classifier != nil && h.classifier.Ready(),
	}

	healthy := true
	if h.db == nil || h.db.Ping(ctx) != nil {
		data["database"] = "down"
		healthy = false
	}
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		// cache is best effort; requests bypass it when it is down
		data["cache"] = "down"
	}

	if !healthy {
		return response.Error(c, fiber.StatusServiceUnavailable, "service unavailable", data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
