package server

import (
	"github.com/automaster/automaster/internal/common/apperr"
	"github.com/gin-gonic/gin"
)

// WriteError 把业务错误统一转成 {code, message} 结构返回。
// 非业务错误按 SYSTEM_ERROR 处理，内部细节不外泄。
func WriteError(c *gin.Context, err error) {
	e := apperr.From(err)
	c.JSON(e.HTTPStatus(), gin.H{
		"code":    e.Code,
		"message": e.Message,
	})
}
