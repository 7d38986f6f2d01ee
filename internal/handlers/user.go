package handlers

import (
	"net/http"

	"shulin/internal/config"
	"shulin/internal/db"
	"shulin/internal/models"
	"shulin/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile 用户主页：基本信息 + 最近发帖
func (h *UserHandler) Profile(c *gin.Context) {
	var user models.User
	if err := db.DB.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
		JSONError(c, http.StatusNotFound, "用户不存在")
		return
	}

	var posts []models.Post
	db.DB.Preload("Board").
		Where("user_id = ? AND deleted = ?", user.ID, false).
		Order("id DESC").
		Limit(config.PageSize).
		Find(&posts)

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"posts": posts,
	})
}

// KarmaLogs 当前用户的声望明细
func (h *UserHandler) KarmaLogs(c *gin.Context) {
	user := CurrentUser(c)
	cur := utils.ParseCursor(c.Query("offset"), "")

	var logs []models.KarmaLog
	db.DB.Where("user_id = ?", user.ID).
		Order("id DESC").
		Offset(cur.Offset).
		Limit(config.PageSize + 1).
		Find(&logs)

	logs, end := utils.TrimPage(logs, config.PageSize)
	c.JSON(http.StatusOK, gin.H{"items": logs, "end_of_items": end})
}

// Subscriptions 当前用户订阅的版块
func (h *UserHandler) Subscriptions(c *gin.Context) {
	user := CurrentUser(c)

	var subs []models.BoardSubscription
	db.DB.Preload("Board").Where("user_id = ?", user.ID).Find(&subs)

	boards := make([]models.Board, 0, len(subs))
	for _, s := range subs {
		boards = append(boards, s.Board)
	}
	c.JSON(http.StatusOK, boards)
}
