package report

import (
	"net/http"
	"strconv"

	"github.com/automaster/automaster/internal/common/server"
	"github.com/gin-gonic/gin"
)

// Handler 经营看板 HTTP 接口。
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/dashboard")
	g.GET("/stats", h.stats)
	g.GET("/sales-trend", h.salesTrend)
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.svc.ComputeStats(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) salesTrend(c *gin.Context) {
	months := 6
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 24 {
			c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "months 必须是 1-24 的整数"})
			return
		}
		months = n
	}
	points, err := h.svc.SalesTrend(c.Request.Context(), months)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}
