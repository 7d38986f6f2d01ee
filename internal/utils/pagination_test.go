package utils

import (
	"strings"
	"testing"
	"time"
)

func TestResolveSortFallback(t *testing.T) {
	// 认识的过滤器原样返回
	for _, f := range []string{"hot", "new", "top"} {
		if got := ResolveSort(f); got != f {
			t.Errorf("ResolveSort(%q) = %q", f, got)
		}
	}

	// 没见过的、空的一律静默退回默认值，从不报错
	for _, f := range []string{"", "spicy", "HOT", "最热"} {
		if got := ResolveSort(f); got != "hot" {
			t.Errorf("ResolveSort(%q) = %q, want hot", f, got)
		}
	}
}

func TestResolveCommentSort(t *testing.T) {
	if got := ResolveCommentSort("new"); got != "new" {
		t.Errorf("got %q", got)
	}
	if got := ResolveCommentSort("hot"); got != "top" {
		// 评论没有热度分，未知过滤器退回 top
		t.Errorf("ResolveCommentSort(hot) = %q, want top", got)
	}
}

func TestParseCursorGarbage(t *testing.T) {
	// 解析不了的翻页参数全部归零（退回第一页），不报错
	cases := [][2]string{
		{"", ""},
		{"abc", "xyz"},
		{"-3", "-7"},
		{"1e5", "0x10"},
	}
	for _, tc := range cases {
		cur := ParseCursor(tc[0], tc[1])
		if cur.Offset != 0 || cur.LastSeen != 0 {
			t.Errorf("ParseCursor(%q, %q) = %+v, want 零值", tc[0], tc[1], cur)
		}
	}

	cur := ParseCursor("40", "123")
	if cur.Offset != 40 || cur.LastSeen != 123 {
		t.Errorf("合法参数解析失败: %+v", cur)
	}
}

func TestOrderClauseHasStableTiebreak(t *testing.T) {
	// 每种排序都必须带 id 兜底，同分条目重复查询不许换位置
	for _, sort := range []string{"hot", "new", "top", "unknown"} {
		clause := OrderClause(sort)
		if !strings.HasSuffix(clause, "id DESC") {
			t.Errorf("OrderClause(%q) = %q 缺少 id 兜底", sort, clause)
		}
	}
}

func TestTimeCutoff(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	cutoff, ok := TimeCutoff("day", now)
	if !ok || !cutoff.Equal(now.Add(-24*time.Hour)) {
		t.Errorf("day cutoff = %v, ok = %v", cutoff, ok)
	}

	if _, ok := TimeCutoff("all", now); ok {
		t.Error("all 不应加时间窗口")
	}
	// 未知时间过滤器退回默认（all）
	if _, ok := TimeCutoff("fortnight", now); ok {
		t.Error("未知过滤器应退回 all")
	}
}

func TestTrimPage(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}

	// 多出一行：截掉并标记还有下一页
	got, end := TrimPage(rows, 4)
	if len(got) != 4 || end {
		t.Errorf("TrimPage 超页: len=%d end=%v", len(got), end)
	}

	// 恰好一页或不足：原样返回并到底
	got, end = TrimPage(rows, 5)
	if len(got) != 5 || !end {
		t.Errorf("TrimPage 整页: len=%d end=%v", len(got), end)
	}
	got, end = TrimPage(rows[:2], 5)
	if len(got) != 2 || !end {
		t.Errorf("TrimPage 短页: len=%d end=%v", len(got), end)
	}
}
