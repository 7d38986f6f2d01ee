package services

import (
	"shulin/internal/db"
	"shulin/internal/models"

	"gorm.io/gorm"
)

// 声望动作常量
const (
	ActionPostUpvoted      = "帖子获赞"
	ActionPostDownvoted    = "帖子被踩"
	ActionCommentUpvoted   = "评论获赞"
	ActionCommentDownvoted = "评论被踩"
	ActionSystemAdjust     = "系统调整"
)

// AddKarmaTx 在调用方的事务里记一条声望明细并相对更新余额。
// 投票台账用它保证声望和票数增量出自同一次状态读取
func AddKarmaTx(tx *gorm.DB, userID uint, amount int, action string) error {
	if amount == 0 {
		return nil
	}

	entry := models.KarmaLog{
		UserID: userID,
		Amount: amount,
		Action: action,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("karma", gorm.Expr("karma + ?", amount)).
		Error
}

// AddKarma 独立事务版本
func AddKarma(userID uint, amount int, action string) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return AddKarmaTx(tx, userID, amount, action)
	})
}
