package handler

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/ledger-api/pkg/errors"
)

// Handler contains the cross-cutting endpoints: liveness, readiness and
// the prometheus scrape target.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now(),
	})
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}

// AbortWithError writes the standard error envelope, mapping the
// ledger's error taxonomy onto HTTP statuses.
func AbortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var app *errors.AppError
	if stderrors.As(err, &app) {
		status = app.StatusCode()
	}
	c.JSON(status, NewErrorResponse(err.Error()))
}
