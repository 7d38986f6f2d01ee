package models

import (
	"time"
)

// BoardSubscription 用户订阅版块的关系表
type BoardSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_board" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	BoardID   uint      `gorm:"not null;uniqueIndex:idx_user_board" json:"board_id"`
	Board     Board     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"board"`
	CreatedAt time.Time `json:"created_at"`
}
