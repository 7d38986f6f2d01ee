package models

import (
	"time"
)

type Comment struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Cid      string   `gorm:"uniqueIndex;size:8;not null" json:"cid"`
	PostID   uint     `gorm:"not null;index" json:"post_id"`
	Post     Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID   uint     `gorm:"index" json:"user_id"`
	User     *User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ParentID *uint    `gorm:"index" json:"parent_id"` // null 表示根评论
	Parent   *Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	// Points 投票净值，评论的排序直接用它（不走热度分）
	Points int `gorm:"default:0;index" json:"points"`
	// ChildCount 直接子回复数，随插入在同一事务内维护
	ChildCount int `gorm:"default:0" json:"child_count"`
	// 软删墓碑：结构保留，作者和内容在组装时抹掉
	Deleted   bool       `gorm:"default:false;index" json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	// 非数据库字段
	ViewerVote int `gorm:"-" json:"viewer_vote"`
}
