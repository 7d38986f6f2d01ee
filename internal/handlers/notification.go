package handlers

import (
	"net/http"

	"shulin/internal/config"
	"shulin/internal/db"
	"shulin/internal/middleware"
	"shulin/internal/models"
	"shulin/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List 我的通知
func (h *NotificationHandler) List(c *gin.Context) {
	user := CurrentUser(c)
	cur := utils.ParseCursor(c.Query("offset"), "")

	var notifications []models.Notification
	db.DB.Preload("Actor").
		Where("user_id = ?", user.ID).
		Order("id DESC").
		Offset(cur.Offset).
		Limit(config.PageSize + 1).
		Find(&notifications)

	notifications, end := utils.TrimPage(notifications, config.PageSize)

	unread := int64(0)
	if count, ok := c.Get(middleware.UnreadCountKey); ok {
		unread = count.(int64)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":        notifications,
		"end_of_items": end,
		"unread":       unread,
	})
}

// Read 标记单条已读
func (h *NotificationHandler) Read(c *gin.Context) {
	user := CurrentUser(c)
	db.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", utils.StringToUint(c.Param("id")), user.ID).
		Update("is_read", true)
	c.Status(http.StatusNoContent)
}

// ReadAll 全部标记已读
func (h *NotificationHandler) ReadAll(c *gin.Context) {
	user := CurrentUser(c)
	db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true)
	c.Status(http.StatusNoContent)
}

// Delete 删除单条通知
func (h *NotificationHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	db.DB.Where("id = ? AND user_id = ?", utils.StringToUint(c.Param("id")), user.ID).
		Delete(&models.Notification{})
	c.Status(http.StatusNoContent)
}
