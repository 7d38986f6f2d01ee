package models

import (
	"time"
)

type Board struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;unique" json:"name"`
	Description string `json:"description"`
	// 聚合计数只通过相对更新维护（订阅/退订、发帖），从不全表重算
	NumSubscribers int       `gorm:"default:0" json:"num_subscribers"`
	PostCount      int       `gorm:"default:0" json:"post_count"`
	Deleted        bool      `gorm:"default:false;index" json:"deleted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
