package user

import (
	"net/http"
	"time"

	"github.com/automaster/automaster/internal/common/auth"
	"github.com/automaster/automaster/internal/common/config"
	"github.com/automaster/automaster/internal/common/server"
	"github.com/gin-gonic/gin"
)

// Handler 账号管理与登录 HTTP 接口。
type Handler struct {
	svc     *Service
	authCfg config.AuthConfig
}

func NewHandler(svc *Service, authCfg config.AuthConfig) *Handler {
	return &Handler{svc: svc, authCfg: authCfg}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/users")
	g.GET("", h.list)
	g.GET("/by-role", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.PUT("/:id/status", h.updateStatus)
	g.DELETE("/:id", h.delete)

	r.POST("/api/auth/login", h.login)
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context(), Role(c.Query("role")), c.Query("name"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "请求体格式错误"})
		return
	}
	u, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) update(c *gin.Context) {
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "请求体格式错误"})
		return
	}
	u, err := h.svc.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) updateStatus(c *gin.Context) {
	var in struct {
		Status Status `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "请求体格式错误"})
		return
	}
	u, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		server.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) login(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "请求体格式错误"})
		return
	}
	u, err := h.svc.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		server.WriteError(c, err)
		return
	}

	ttl := time.Duration(h.authCfg.TokenTTLMin) * time.Minute
	token, expiresAt, err := auth.GenerateAccessToken(h.authCfg, u.ID, []string{string(u.Role)}, ttl)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt,
		"user":      u,
	})
}
