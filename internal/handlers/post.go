package handlers

import (
	"fmt"
	"net/http"
	"time"

	"shulin/internal/db"
	"shulin/internal/models"
	"shulin/internal/services"
	"shulin/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// feedOptions 从查询参数拼出信息流请求
func feedOptions(c *gin.Context, boardID uint) services.FeedOptions {
	return services.FeedOptions{
		BoardID:  boardID,
		Sort:     c.Query("sort"),
		Time:     c.Query("time"),
		Cursor:   utils.ParseCursor(c.Query("offset"), c.Query("last_seen")),
		ViewerID: ViewerID(c),
	}
}

// Feed 全站信息流
func (h *PostHandler) Feed(c *gin.Context) {
	opts := feedOptions(c, 0)

	// 匿名首页是最热的路径，短 TTL 缓存一份（带 viewer 的页面逐票不同，不缓存）
	if opts.ViewerID == 0 && opts.Cursor.Offset == 0 && opts.Cursor.LastSeen == 0 {
		cacheKey := fmt.Sprintf("feed:%s:%s", utils.ResolveSort(opts.Sort), utils.ResolveTime(opts.Time))
		page, err := utils.GetCache().Remember(cacheKey, time.Minute, func() (interface{}, error) {
			return services.GetPostFeed(opts)
		})
		if err != nil {
			ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
		return
	}

	page, err := services.GetPostFeed(opts)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// BoardFeed 版块内的信息流
func (h *PostHandler) BoardFeed(c *gin.Context) {
	board, ok := findBoard(c)
	if !ok {
		return
	}

	page, err := services.GetPostFeed(feedOptions(c, board.ID))
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type createPostRequest struct {
	Board   string `json:"board"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

func (h *PostHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "请求格式不正确")
		return
	}
	if req.Title == "" {
		JSONError(c, http.StatusBadRequest, "标题不能为空")
		return
	}

	var board models.Board
	if err := db.DB.Where("name = ? AND deleted = ?", req.Board, false).First(&board).Error; err != nil {
		JSONError(c, http.StatusNotFound, "版块不存在")
		return
	}

	post := models.Post{
		Pid:     utils.RandPublicID(8),
		UserID:  user.ID,
		BoardID: board.ID,
		Title:   req.Title,
		URL:     req.URL,
		Content: req.Content,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		// 版块发帖计数随插入一起走相对更新
		return tx.Model(&models.Board{}).Where("id = ?", board.ID).
			UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error
	})
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "发布失败")
		return
	}

	// 新帖按当前基准算一次初始分
	if err := services.RefreshPostScore(post.ID); err == nil {
		db.DB.Select("score").First(&post, post.ID)
	}

	// 首页缓存失效
	utils.GetCache().Delete("feed:new:all")
	utils.GetCache().Delete("feed:hot:all")

	c.JSON(http.StatusCreated, post)
}

// Detail 帖子详情，带渲染后的正文和浏览者投票方向
func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := findPost(c)
	if !ok {
		return
	}

	viewerID := ViewerID(c)
	if viewerID > 0 {
		var vote models.Vote
		if err := db.DB.Where("user_id = ? AND post_id = ?", viewerID, post.ID).
			First(&vote).Error; err == nil {
			post.ViewerVote = vote.Value
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"post":         post,
		"content_html": utils.RenderMarkdown(post.Content),
	})
}

// Delete 软删帖子：立墓碑，不清内容行
func (h *PostHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	post, ok := findPost(c)
	if !ok {
		return
	}
	if post.UserID != user.ID {
		JSONError(c, http.StatusForbidden, "无权删除此帖")
		return
	}

	now := time.Now()
	if err := db.DB.Model(&models.Post{}).Where("id = ?", post.ID).
		Updates(map[string]interface{}{"deleted": true, "deleted_at": &now}).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "删除失败")
		return
	}

	c.Status(http.StatusNoContent)
}

func findPost(c *gin.Context) (*models.Post, bool) {
	var post models.Post
	if err := db.DB.Preload("User").Preload("Board").
		Where("pid = ? AND deleted = ?", c.Param("pid"), false).
		First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "帖子不存在")
		return nil, false
	}
	return &post, true
}
