package transaction

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/automaster/automaster/internal/common/server"
	"github.com/gin-gonic/gin"
)

// Handler 交易 HTTP 接口。
// 车辆的预定/回到在售/完成预定也注册在这里：它们同时操作车辆与交易记录。
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api/transactions")
	g.GET("", h.list)
	g.POST("", h.createDirectSale)
	g.GET("/search", h.search)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delete)

	cars := r.Group("/api/cars")
	cars.PUT("/:id/reserve", h.reserve)
	cars.PUT("/:id/back-to-sale", h.backToSale)
	cars.PUT("/:id/complete-reservation", h.completeReservation)

	r.GET("/api/export/transactions", h.exportCSV)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) createDirectSale(c *gin.Context) {
	var in DirectSaleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "请求体格式错误"})
		return
	}
	t, err := h.svc.CreateDirectSale(c.Request.Context(), &in)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		server.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// searchFilterFromQuery 解析搜索/导出共用的过滤参数。
// 金额非法时直接写 400 响应并返回 false。
func searchFilterFromQuery(c *gin.Context) (SearchFilter, bool) {
	f := SearchFilter{
		Status:          Status(c.Query("status")),
		OrderID:         c.Query("orderId"),
		CarKeyword:      c.Query("car"),
		CustomerKeyword: c.Query("customer"),
		DateFrom:        c.Query("dateFrom"),
		DateTo:          c.Query("dateTo"),
	}
	if raw := c.Query("price"); raw != "" {
		p, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "金额必须是整数"})
			return f, false
		}
		f.Price = &p
	}
	return f, true
}

func (h *Handler) search(c *gin.Context) {
	f, ok := searchFilterFromQuery(c)
	if !ok {
		return
	}

	list, err := h.svc.Search(c.Request.Context(), f)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) reserve(c *gin.Context) {
	var in ReserveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "请求体格式错误"})
		return
	}
	t, err := h.svc.Reserve(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) backToSale(c *gin.Context) {
	if err := h.svc.CancelReservation(c.Request.Context(), c.Param("id")); err != nil {
		server.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) completeReservation(c *gin.Context) {
	var in struct {
		FinalPrice      int64   `json:"finalPrice"`
		HandledByUserID *string `json:"handledByUserId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "PARAM_ERROR", "message": "请求体格式错误"})
		return
	}
	t, err := h.svc.CompleteReservation(c.Request.Context(), c.Param("id"), in.FinalPrice, in.HandledByUserID)
	if err != nil {
		server.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// exportCSV 按搜索条件导出交易流水，不带条件时导出全量。
// 带 UTF-8 BOM，Excel 直接打开不乱码。
func (h *Handler) exportCSV(c *gin.Context) {
	f, ok := searchFilterFromQuery(c)
	if !ok {
		return
	}
	list, err := h.svc.Search(c.Request.Context(), f)
	if err != nil {
		server.WriteError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	if _, err := c.Writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return
	}

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"订单号", "车辆", "客户", "状态", "金额", "日期"})
	for i := range list {
		t := &list[i]
		carLabel := ""
		if t.Car != nil {
			carLabel = fmt.Sprintf("%d %s %s", t.Car.Year, t.Car.Make, t.Car.Model)
		}
		custLabel := ""
		if t.Customer != nil {
			custLabel = t.Customer.Name + " " + t.Customer.Phone
		}
		_ = w.Write([]string{
			t.ID,
			carLabel,
			custLabel,
			string(t.Status),
			strconv.FormatInt(effectivePrice(t), 10),
			t.Date.Format("2006-01-02"),
		})
	}
	w.Flush()
}
