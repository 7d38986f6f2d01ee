package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:40;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"-"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Avatar    string    `gorm:"default:🌲" json:"avatar"` // emoji 头像
	Bio       string    `gorm:"size:200" json:"bio"`
	Karma     int       `gorm:"default:0" json:"karma"` // 声望，只通过投票增量变动
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
