package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/automaster/automaster/internal/common/auth"
	"github.com/automaster/automaster/internal/common/config"
	"github.com/gin-gonic/gin"
)

func newAuthTestRouter(cfg config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(cfg, nil))
	r.POST("/api/auth/login", func(c *gin.Context) {
		c.String(http.StatusOK, "login")
	})
	r.GET("/api/cars", func(c *gin.Context) {
		ai, ok := AuthFromContext(c)
		if !ok {
			c.String(http.StatusInternalServerError, "missing auth info")
			return
		}
		c.String(http.StatusOK, ai.Subject)
	})
	admin := r.Group("/api/users", RequireRoles(cfg, "Admin"))
	admin.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "users")
	})
	return r
}

func TestJWTAuthMiddlewareAndRBAC(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:     true,
		JWTSecret:   "test-secret",
		Issuer:      "automaster",
		PublicPaths: []string{"/api/auth/login"},
	}
	r := newAuthTestRouter(cfg)

	// 公开路径不需要 token
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected public path 200, got %d", w.Code)
	}

	// 没有 token 被拒绝
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cars", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	// 带合法 token 放行，并能取到 AuthInfo
	token, _, err := auth.GenerateAccessToken(cfg, "u-1", []string{"Sales"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != "u-1" {
		t.Fatalf("expected subject u-1, got %s", w.Body.String())
	}

	// Sales 角色访问 Admin 接口被 RBAC 拒绝
	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for sales on admin route, got %d", w.Code)
	}

	// Admin 角色放行
	adminToken, _, err := auth.GenerateAccessToken(cfg, "u-2", []string{"Admin"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}

func TestJWTAuthMiddlewareDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(config.AuthConfig{Enabled: false}, nil))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 when auth disabled, got %d", w.Code)
	}
}
