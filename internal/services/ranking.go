package services

import (
	"errors"
	"shulin/internal/db"
	"shulin/internal/models"
	"shulin/internal/utils"

	"gorm.io/gorm"
)

// RefreshPostScore 重算并落库帖子的热度分。
//
// 必须重读当前票数，而不是复用触发重算的那个增量：两次投票的重算如果
// 乱序到达，迟到的旧重算读到的也是最新票数，不会把新分数顶回去。
// 票数更新和分数落库之间允许短暂不一致（排序暂时偏旧），最终值总是对的。
func RefreshPostScore(postID uint) error {
	var post models.Post
	if err := db.DB.Select("id", "points", "created_at").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	score := utils.HotScore(post.Points, post.CreatedAt)

	return db.DB.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("score", score).
		Error
}
