package models

import (
	"time"
)

type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Pid     string `gorm:"uniqueIndex;size:8;not null" json:"pid"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	BoardID uint   `gorm:"not null;index;default:1" json:"board_id"`
	Board   Board  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"board"`
	Title   string `gorm:"not null" json:"title"`
	URL     string `json:"url"` // Optional
	Content string `gorm:"type:text" json:"content"`
	// Points 投票净值，只通过投票台账的增量改动
	Points int `gorm:"default:0;index" json:"points"`
	// Score 派生热度分，Points 变化时同步重算（见 utils.HotScore）
	Score float64 `gorm:"default:0;index" json:"score"`
	// 评论计数随评论插入在同一事务内维护
	CommentCount     int        `gorm:"default:0" json:"comment_count"`
	RootCommentCount int        `gorm:"default:0" json:"root_comment_count"`
	Deleted          bool       `gorm:"default:false;index" json:"deleted"` // 软删墓碑
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// 非数据库字段，查询时按浏览者填充
	ViewerVote int `gorm:"-" json:"viewer_vote"`
}
