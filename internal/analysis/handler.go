package analysis

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plant-relay/internal/llm"
	"plant-relay/internal/shared/metrics"
	"plant-relay/internal/shared/server/middleware"
	"plant-relay/internal/shared/server/respond"
)

// Handler wires POST /analyze to the analysis service.
type Handler struct {
	Svc    *Service
	Limits Limits
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, limits Limits) *Handler {
	return &Handler{Svc: svc, Limits: limits}
}

// RegisterRoutes attaches the analyze route. mw runs before the handler.
func (h *Handler) RegisterRoutes(r gin.IRoutes, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.analyze)
	r.POST("/analyze", handlers...)
}

func (h *Handler) analyze(c *gin.Context) {
	img, err := readImage(c, h.Limits)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	res, err := h.Svc.Analyze(ctx, img)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Set("resultCode", res.Code)
	respond.JSON(c, http.StatusOK, res)
}

func (h *Handler) fail(c *gin.Context, err error) {
	c.Set("resultCode", CodeError)

	var herr *HTTPError
	var perr *ParseError
	switch {
	case errors.As(err, &herr):
		metrics.IncAnalysisRejected()
		respond.Error(c, herr.Status, herr.Message)
	case errors.Is(err, llm.ErrMissingAPIKey):
		respond.Error(c, http.StatusInternalServerError, msgNotConfigured)
	case errors.As(err, &perr):
		respond.Error(c, http.StatusInternalServerError, msgUnparseableReply)
	default:
		respond.Error(c, http.StatusInternalServerError, msgAnalysisFailed)
	}
}
