package utils

import (
	"math/rand"
)

const idLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandPublicID 生成帖子/评论对外暴露的短 ID（区别于数据库自增主键）
func RandPublicID(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idLetters[rand.Intn(len(idLetters))]
	}
	return string(b)
}

// GetRandomEmoji 返回一个随机 emoji 用于默认头像
func GetRandomEmoji() string {
	emojis := []string{"🌲", "🌳", "🌿", "🍂", "🍁", "🌰", "🐿", "🦌", "🦉", "🐻", "🦊", "🍄"}
	return emojis[rand.Intn(len(emojis))]
}
