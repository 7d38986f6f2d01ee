package handlers

import (
	"fmt"
	"net/http"
	"os"

	"shulin/internal/db"
	"shulin/internal/models"
	"shulin/internal/services"
	"shulin/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	mailService *services.MailService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{
		mailService: services.NewMailService(),
	}
}

// Tree 帖子的评论树。带 parent_id 参数时变成"加载更多回复"：
// 只在那条评论的子回复里翻页
func (h *CommentHandler) Tree(c *gin.Context) {
	post, ok := findPost(c)
	if !ok {
		return
	}

	opts := services.TreeOptions{
		PostID:   post.ID,
		Sort:     c.Query("sort"),
		Cursor:   utils.ParseCursor(c.Query("offset"), c.Query("last_seen")),
		ViewerID: ViewerID(c),
	}
	if pid := utils.StringToUint(c.Query("parent_id")); pid > 0 {
		opts.ParentID = &pid
	}

	tree, err := services.GetCommentTree(opts)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	user := CurrentUser(c)
	post, ok := findPost(c)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "请求格式不正确")
		return
	}

	comment, err := services.CreateComment(post.ID, user.ID, req.ParentID, req.Content)
	if err != nil {
		ServiceError(c, err)
		return
	}

	// 通知被回复者 / 帖子作者，不阻塞响应
	go h.notifyComment(user, post, comment)

	c.JSON(http.StatusCreated, comment)
}

// notifyComment 回复通知：回评论只通知被回复者，回帖子通知帖子作者；
// 从不通知自己
func (h *CommentHandler) notifyComment(actor *models.User, post *models.Post, comment *models.Comment) {
	if comment.ParentID != nil {
		var parent models.Comment
		if err := db.DB.Preload("User").First(&parent, *comment.ParentID).Error; err != nil {
			return
		}
		if parent.UserID == actor.ID || parent.Deleted {
			return
		}
		notification := models.Notification{
			UserID:  parent.UserID,
			ActorID: &actor.ID,
			Type:    models.NotificationTypeReplyComment,
			Reason:  fmt.Sprintf("在《%s》中回复了您的评论", post.Title),
		}
		db.DB.Create(&notification)

		if parent.User != nil {
			postLink := fmt.Sprintf("%s/p/%s#comment-%d", os.Getenv("SITE_URL"), post.Pid, comment.ID)
			h.mailService.SendReplyNotification(parent.User.Email, actor.Username, post.Title, comment.Content, postLink)
		}
		return
	}

	if post.UserID == actor.ID {
		return
	}
	notification := models.Notification{
		UserID:  post.UserID,
		ActorID: &actor.ID,
		Type:    models.NotificationTypeCommentPost,
		Reason:  fmt.Sprintf("在您的帖子《%s》下发布了新的评论", post.Title),
	}
	db.DB.Create(&notification)
}

// Delete 软删评论：墓碑保留在树里，子孙仍然可达
func (h *CommentHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)

	var comment models.Comment
	if err := db.DB.Where("cid = ?", c.Param("cid")).First(&comment).Error; err != nil {
		JSONError(c, http.StatusNotFound, "评论不存在")
		return
	}
	if comment.UserID != user.ID {
		JSONError(c, http.StatusForbidden, "只能删除自己的评论")
		return
	}

	if err := services.DeleteComment(comment.ID); err != nil {
		ServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
