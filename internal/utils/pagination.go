package utils

import (
	"strconv"
	"time"

	"shulin/internal/config"

	"gorm.io/gorm"
)

// 排序过滤器到排序列的映射。new 走 id（id 单调分配，和 created_at 同序，
// 且能做稳定的 keyset 翻页）
var sortColumns = map[string]string{
	"hot": "score",
	"new": "id",
	"top": "points",
}

// 时间过滤器到窗口宽度的映射
var timeWindows = map[string]time.Duration{
	"day":   24 * time.Hour,
	"week":  7 * 24 * time.Hour,
	"month": 30 * 24 * time.Hour,
	"year":  365 * 24 * time.Hour,
}

// ResolveSort 把请求里的排序过滤器归一化：没见过的或空的一律退回默认值，
// 从不报错
func ResolveSort(filter string) string {
	if _, ok := sortColumns[filter]; ok {
		return filter
	}
	if _, ok := sortColumns[config.DefaultSort]; ok {
		return config.DefaultSort
	}
	return "hot"
}

// ResolveTime 归一化时间过滤器，同样静默回退
func ResolveTime(filter string) string {
	if _, ok := timeWindows[filter]; ok {
		return filter
	}
	if filter == "all" {
		return "all"
	}
	if _, ok := timeWindows[config.DefaultTime]; ok {
		return config.DefaultTime
	}
	return "all"
}

// TimeCutoff 返回时间窗口的下界；all 返回 ok=false 表示不加窗口
func TimeCutoff(filter string, now time.Time) (time.Time, bool) {
	w, ok := timeWindows[ResolveTime(filter)]
	if !ok {
		return time.Time{}, false
	}
	return now.Add(-w), true
}

// Cursor 翻页位置：offset 或"上次见到的 id"二选一。
// 任何解析不了的输入都归零，也就是退回第一页——浏览信息流时宁可降级也不报错。
type Cursor struct {
	Offset   int
	LastSeen uint
}

// ParseCursor 从查询参数解析翻页位置
func ParseCursor(offsetStr, lastSeenStr string) Cursor {
	var c Cursor
	if n, err := strconv.Atoi(offsetStr); err == nil && n > 0 {
		c.Offset = n
	}
	if n, err := strconv.ParseUint(lastSeenStr, 10, 64); err == nil && n > 0 {
		c.LastSeen = uint(n)
	}
	return c
}

// OrderClause 排序键对应的 ORDER BY。所有排序都带 id DESC 兜底，
// 同分的条目在重复查询之间不会换位置
func OrderClause(sort string) string {
	switch ResolveSort(sort) {
	case "new":
		return "id DESC"
	case "top":
		return "points DESC, id DESC"
	default:
		return "score DESC, id DESC"
	}
}

// Paginate 把排序和翻页位置落到查询上，并多取一行（pageSize+1），
// 调用方用多出来的那行判断是否到底，省一次 COUNT。
//
// 只有 new 排序在带 lastSeen 时切换成 keyset 翻页（id < lastSeen，
// offset 被忽略）：并发插入下不丢行、不重行。其余排序走 OFFSET，
// 排名快照之间翻页可能串行，这是已接受的取舍。
func Paginate(q *gorm.DB, sort string, cur Cursor, pageSize int) *gorm.DB {
	sort = ResolveSort(sort)
	q = q.Order(OrderClause(sort))

	if sort == "new" && cur.LastSeen > 0 {
		q = q.Where("id < ?", cur.LastSeen)
	} else if cur.Offset > 0 {
		q = q.Offset(cur.Offset)
	}

	return q.Limit(pageSize + 1)
}

// 评论没有派生热度分，排序直接用票数；new 同样走 id
var commentSortColumns = map[string]string{
	"top": "points",
	"new": "id",
}

// ResolveCommentSort 归一化评论排序过滤器，默认 top
func ResolveCommentSort(filter string) string {
	if _, ok := commentSortColumns[filter]; ok {
		return filter
	}
	return "top"
}

// CommentOrderClause 评论排序键对应的 ORDER BY，规则同帖子流
func CommentOrderClause(sort string) string {
	if ResolveCommentSort(sort) == "new" {
		return "id DESC"
	}
	return "points DESC, id DESC"
}

// PaginateComments 评论分支的分页，页大小、到底判断、keyset 切换
// 与帖子流完全一致，只是作用域换成单个父级/单个帖子
func PaginateComments(q *gorm.DB, sort string, cur Cursor, pageSize int) *gorm.DB {
	sort = ResolveCommentSort(sort)
	q = q.Order(CommentOrderClause(sort))

	if sort == "new" && cur.LastSeen > 0 {
		q = q.Where("id < ?", cur.LastSeen)
	} else if cur.Offset > 0 {
		q = q.Offset(cur.Offset)
	}

	return q.Limit(pageSize + 1)
}

// TrimPage 去掉多取的那一行，第二个返回值表示是否已到末尾
func TrimPage[T any](rows []T, pageSize int) ([]T, bool) {
	if len(rows) > pageSize {
		return rows[:pageSize], false
	}
	return rows, true
}
