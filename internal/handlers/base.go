package handlers

import (
	"errors"
	"net/http"
	"updoot/internal/services"

	"github.com/gin-gonic/gin"
)

// FieldErrors 把字段级错误作为数据返回（HTTP 200），
// 客户端根据 field 高亮对应输入框。
func FieldErrors(c *gin.Context, errs []services.FieldError) {
	c.JSON(http.StatusOK, gin.H{"errors": errs})
}

// Fail 按错误类型映射 HTTP 状态码，非预期错误一律 500
func Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound), errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidVote):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotPostAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
