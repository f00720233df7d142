package customer

import (
	"net/http"

	"github.com/automaster/automaster/internal/common/server"
	"github.com/gin-gonic/gin"
)

// Handler 客户管理 HTTP 接口。
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/customers")
	g.GET("", h.list)
	g.GET("/search", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	customers, err := h.svc.List(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) get(c *gin.Context) {
	cust, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *Handler) create(c *gin.Context) {
	var in Customer
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
	var in Customer
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
