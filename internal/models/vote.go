package models

import (
	"time"
)

// Vote 每个 (用户, 目标) 至多一条记录；方向只有 1 / -1，
// 中立态就是没有记录，从不落 0。
// Postgres 下复合唯一索引里 NULL 互不相等，所以帖子票和评论票
// 可以共用一张表，各自用 (user_id, post_id) / (user_id, comment_id) 约束。
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_vote_user_post;uniqueIndex:idx_vote_user_comment" json:"user_id"`
	PostID    *uint     `gorm:"index;uniqueIndex:idx_vote_user_post" json:"post_id"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_vote_user_comment" json:"comment_id"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
