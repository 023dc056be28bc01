package app

import (
	"context"
	"net/http"
	"time"

	httputil "gymstore/pkg/http"
	"gymstore/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 2 * time.Second

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Cache    string `json:"cache,omitempty"`
}

type pinger func(ctx context.Context) error

type HealthHandler struct {
	pingDB    pinger
	pingCache pinger
	log       *logger.Logger
}

// NewHealthHandler builds readiness probes for the configured stores. A nil
// Redis client means the service runs without a cache and it is not probed.
func NewHealthHandler(mongoClient *mongo.Client, redisClient *redis.Client, log *logger.Logger) *HealthHandler {
	h := &HealthHandler{log: log}
	if mongoClient != nil {
		h.pingDB = func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }
	}
	if redisClient != nil {
		h.pingCache = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	return h
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ready"}
	status := http.StatusOK

	if h.pingDB != nil {
		resp.Database = "ok"
		if err := h.pingDB(ctx); err != nil {
			h.log.Error("Database health check failed", "error", err, "path", r.URL.Path)
			resp.Database = "error"
			status = http.StatusServiceUnavailable
		}
	}
	if h.pingCache != nil {
		resp.Cache = "ok"
		if err := h.pingCache(ctx); err != nil {
			h.log.Error("Cache health check failed", "error", err, "path", r.URL.Path)
			resp.Cache = "error"
			status = http.StatusServiceUnavailable
		}
	}
	if status != http.StatusOK {
		resp.Status = "unavailable"
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
