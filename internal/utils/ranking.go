package utils

import (
	"math"
	"time"

	"shulin/internal/config"
)

// HotScore 计算帖子热度分：
//
//	sign(points) * log10(max(|points|, 1)) + ageSeconds / 45000
//
// 票数走对数（边际效应递减），新旧走线性（每 45000 秒 ≈ 12.5 小时差一个
// 分数单位）。ageSeconds 以 config.RankEpoch 为基准而不是 now，这样相同
// 输入算出相同分数，排序可复现；分数从不靠定时器衰减，只在票数变化时重算。
func HotScore(points int, createdAt time.Time) float64 {
	order := math.Log10(math.Max(math.Abs(float64(points)), 1))

	var sign float64
	if points > 0 {
		sign = 1
	} else if points < 0 {
		sign = -1
	}

	ageSeconds := float64(createdAt.Unix() - config.RankEpoch.Unix())
	return sign*order + ageSeconds/45000
}
