package maintenance

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plant-relay/internal/shared/server/respond"
	"plant-relay/internal/shared/telemetry"
)

// Handler serves GET /maintenance.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches the maintenance route.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/maintenance", h.get)
}

func (h *Handler) get(c *gin.Context) {
	status, err := h.Repo.Get(c.Request.Context())
	if err != nil {
		telemetry.Error("maintenance.read_failed", map[string]any{
			"error":      err.Error(),
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "Failed to read maintenance status.")
		return
	}
	respond.OK(c, status)
}
