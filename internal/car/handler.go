package car

import (
	"net/http"

	"github.com/automaster/automaster/internal/common/server"
	"github.com/gin-gonic/gin"
)

// Handler 车辆管理 HTTP 接口。
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册 /api/cars 路由。
// 预定/成交等生命周期接口由交易模块注册（它们需要同时操作交易记录）。
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/cars")
	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.GET("/by-status", h.listByStatus)
	g.GET("/check-vin", h.checkVIN)
}

func (h *Handler) list(c *gin.Context) {
	cars, err := h.svc.List(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (h *Handler) listByStatus(c *gin.Context) {
	cars, err := h.svc.ListByStatus(c.Request.Context(), Status(c.Query("status")))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (h *Handler) create(c *gin.Context) {
	var in Car
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "请求体格式错误"})
		return
	}
	saved, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) update(c *gin.Context) {
	var in Car
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "请求体格式错误"})
		return
	}
	saved, err := h.svc.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		server.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) checkVIN(c *gin.Context) {
	exists, err := h.svc.CheckVIN(c.Request.Context(), c.Query("vin"), c.Query("excludeId"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
