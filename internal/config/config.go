package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// 站点运行参数，全部来自环境变量（.env 由 main 加载），带默认值兜底
var (
	// PageSize 信息流每页条数
	PageSize = 20
	// CommentPageSize 评论每页条数（根评论和"加载更多回复"共用）
	CommentPageSize = 20
	// ReplyPreviewLimit 根评论预览子回复的数量上限
	ReplyPreviewLimit = 5
	// DefaultSort 默认排序（hot / new / top）
	DefaultSort = "hot"
	// DefaultTime 默认时间范围（all / day / week / month / year）
	DefaultTime = "all"
	// RankEpoch 热度分的基准时刻，部署期常量。改动会整体平移所有分数，
	// 不影响相对排序，但必须在一次部署内保持固定
	RankEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Load 从环境变量读取配置，缺省或非法时保留默认值
func Load() {
	PageSize = envInt("PAGE_SIZE", PageSize)
	CommentPageSize = envInt("COMMENT_PAGE_SIZE", CommentPageSize)
	ReplyPreviewLimit = envInt("REPLY_PREVIEW_LIMIT", ReplyPreviewLimit)

	if v := os.Getenv("DEFAULT_SORT"); v != "" {
		DefaultSort = v
	}
	if v := os.Getenv("DEFAULT_TIME"); v != "" {
		DefaultTime = v
	}
	if v := os.Getenv("RANK_EPOCH"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			log.Printf("RANK_EPOCH 格式错误 (%v)，沿用默认基准", err)
		} else {
			RankEpoch = t
		}
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
