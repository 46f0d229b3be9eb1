package dictionary

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plant-relay/internal/shared/server/respond"
	"plant-relay/internal/shared/telemetry"
)

// Handler serves GET /dictionary.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the dictionary route.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/dictionary", h.list)
}

func (h *Handler) list(c *gin.Context) {
	entries, err := h.Svc.List(c.Request.Context())
	if err != nil {
		telemetry.Error("dictionary.list_failed", map[string]any{
			"error":      err.Error(),
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "Failed to load dictionary.")
		return
	}
	respond.OK(c, gin.H{"entries": entries})
}
