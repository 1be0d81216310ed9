package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/engagement-backend/internal/logger"
)

// Pinger - всё, что умеет проверить доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health отвечает 503, если хранилище недоступно.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Checks:    map[string]string{"storage": "ok"},
	}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err.Error()}).Warn("health: хранилище недоступно")
		resp.Status = "unhealthy"
		resp.Checks["storage"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}
