package handlers

import (
	"errors"
	"net/http"

	"shulin/internal/middleware"
	"shulin/internal/models"
	"shulin/internal/services"

	"github.com/gin-gonic/gin"
)

// CurrentUser 取出 LoadUser 中间件放进上下文的用户，未登录返回 nil
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}

// ViewerID 当前浏览者 ID，匿名为 0
func ViewerID(c *gin.Context) uint {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// JSONError 统一的错误响应
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// ServiceError 把 services 层的错误分类翻译成 HTTP 状态码
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		JSONError(c, http.StatusConflict, err.Error())
	default:
		JSONError(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
