package handlers

import (
	"errors"
	"net/http"
	"strings"

	"shulin/internal/db"
	"shulin/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BoardHandler struct{}

func NewBoardHandler() *BoardHandler {
	return &BoardHandler{}
}

// List 所有未删除版块
func (h *BoardHandler) List(c *gin.Context) {
	var boards []models.Board
	db.DB.Where("deleted = ?", false).Order("id ASC").Find(&boards)
	c.JSON(http.StatusOK, boards)
}

// Get 单个版块信息
func (h *BoardHandler) Get(c *gin.Context) {
	board, ok := findBoard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, board)
}

type createBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *BoardHandler) Create(c *gin.Context) {
	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "请求格式不正确")
		return
	}

	req.Name = strings.TrimSpace(strings.ToLower(req.Name))
	if req.Name == "" {
		JSONError(c, http.StatusBadRequest, "版块名不能为空")
		return
	}

	board := models.Board{Name: req.Name, Description: req.Description}
	if err := db.DB.Create(&board).Error; err != nil {
		JSONError(c, http.StatusConflict, "版块已存在")
		return
	}
	c.JSON(http.StatusCreated, board)
}

// Subscribe 订阅版块，订阅数走相对更新
func (h *BoardHandler) Subscribe(c *gin.Context) {
	user := CurrentUser(c)
	board, ok := findBoard(c)
	if !ok {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		sub := models.BoardSubscription{UserID: user.ID, BoardID: board.ID}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		return tx.Model(&models.Board{}).Where("id = ?", board.ID).
			UpdateColumn("num_subscribers", gorm.Expr("num_subscribers + 1")).Error
	})
	if err != nil {
		// 重复订阅是幂等的；其它存储错误照实报
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.Status(http.StatusNoContent)
			return
		}
		JSONError(c, http.StatusInternalServerError, "订阅失败")
		return
	}
	c.Status(http.StatusNoContent)
}

// Unsubscribe 退订版块
func (h *BoardHandler) Unsubscribe(c *gin.Context) {
	user := CurrentUser(c)
	board, ok := findBoard(c)
	if !ok {
		return
	}

	db.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND board_id = ?", user.ID, board.ID).
			Delete(&models.BoardSubscription{})
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		return tx.Model(&models.Board{}).Where("id = ?", board.ID).
			UpdateColumn("num_subscribers", gorm.Expr("num_subscribers - 1")).Error
	})
	c.Status(http.StatusNoContent)
}

func findBoard(c *gin.Context) (*models.Board, bool) {
	var board models.Board
	if err := db.DB.Where("name = ? AND deleted = ?", c.Param("name"), false).First(&board).Error; err != nil {
		JSONError(c, http.StatusNotFound, "版块不存在")
		return nil, false
	}
	return &board, true
}
