package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ytbulkedit/usecase"
)

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	engine usecase.IBatchEngine
}

func NewHealthHandler(engine usecase.IBatchEngine) IHealthHandler {
	return &HealthHandler{engine: engine}
}

// Healthz returns OK for health checks
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"state":  h.engine.State().String(),
		"busy":   h.engine.Busy(),
	})
}
