package handlers

import (
	"net/http"

	"shulin/internal/services"
	"shulin/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

type voteRequest struct {
	Direction int `json:"direction"` // 1 / -1；再投同方向即撤销
}

// Vote 对帖子或评论投票。返回票数净增量，客户端拿它修正乐观更新
func (h *VoteHandler) Vote(c *gin.Context) {
	user := CurrentUser(c)

	targetType := c.Param("type") // "post" or "comment"
	targetID := utils.StringToUint(c.Param("id"))
	if targetID == 0 {
		JSONError(c, http.StatusBadRequest, "目标不合法")
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "请求格式不正确")
		return
	}

	delta, err := services.ApplyVote(user.ID, targetType, targetID, req.Direction)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"delta": delta})
}
