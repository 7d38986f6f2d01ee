package handlers

import (
	"net/http"

	"shulin/internal/db"
	"shulin/internal/models"
	"shulin/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct{}

func NewBookmarkHandler() *BookmarkHandler {
	return &BookmarkHandler{}
}

// Toggle 收藏/取消收藏
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	user := CurrentUser(c)
	postID := utils.StringToUint(c.Param("id"))

	var post models.Post
	if err := db.DB.Select("id").Where("id = ? AND deleted = ?", postID, false).First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "帖子不存在")
		return
	}

	var existing models.Bookmark
	if err := db.DB.Where("user_id = ? AND post_id = ?", user.ID, postID).First(&existing).Error; err == nil {
		db.DB.Delete(&existing)
		c.JSON(http.StatusOK, gin.H{"bookmarked": false})
		return
	}

	bookmark := models.Bookmark{UserID: user.ID, PostID: postID}
	if err := db.DB.Create(&bookmark).Error; err != nil {
		// 并发重复点击，当作已收藏
		c.JSON(http.StatusOK, gin.H{"bookmarked": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": true})
}

// List 我的收藏
func (h *BookmarkHandler) List(c *gin.Context) {
	user := CurrentUser(c)

	var bookmarks []models.Bookmark
	db.DB.Preload("Post").Preload("Post.User").Preload("Post.Board").
		Where("user_id = ?", user.ID).
		Order("id DESC").
		Find(&bookmarks)

	c.JSON(http.StatusOK, bookmarks)
}
