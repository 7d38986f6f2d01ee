package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

// 状态转移表全覆盖：(当前, 请求) -> (动作, 增量)
func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name      string
		current   int
		requested int
		action    VoteAction
		delta     int
	}{
		{"无记录赞", 0, 1, VoteInsert, 1},
		{"无记录踩", 0, -1, VoteInsert, -1},
		{"重复赞即撤销", 1, 1, VoteRemove, -1},
		{"重复踩即撤销", -1, -1, VoteRemove, 1},
		{"赞改踩", 1, -1, VoteUpdate, -2},
		{"踩改赞", -1, 1, VoteUpdate, 2},
		{"有赞请求0", 1, 0, VoteRemove, -1},
		{"有踩请求0", -1, 0, VoteRemove, 1},
		{"无记录请求0", 0, 0, VoteNoop, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			action, delta, err := Transition(tc.current, tc.requested)
			if err != nil {
				t.Fatalf("Transition(%d, %d): %v", tc.current, tc.requested, err)
			}
			if action != tc.action || delta != tc.delta {
				t.Errorf("Transition(%d, %d) = (%v, %d), want (%v, %d)",
					tc.current, tc.requested, action, delta, tc.action, tc.delta)
			}
		})
	}
}

func TestTransitionInvalidDirection(t *testing.T) {
	for _, requested := range []int{2, -2, 7} {
		if _, _, err := Transition(0, requested); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Transition(0, %d) err = %v, want ErrInvalidInput", requested, err)
		}
	}
}

// 撤销对称性：任何方向投一次再投同方向，两次增量相加必须归零
func TestTransitionUndoNetsToZero(t *testing.T) {
	for _, dir := range []int{1, -1} {
		_, d1, _ := Transition(0, dir)
		_, d2, _ := Transition(dir, dir)
		if d1+d2 != 0 {
			t.Errorf("方向 %d: %d + %d != 0", dir, d1, d2)
		}
	}
}

// 先赞后踩：增量依次 +1、-2，累计 -1
func TestTransitionFlipSequence(t *testing.T) {
	_, d1, _ := Transition(0, 1)
	_, d2, _ := Transition(1, -1)
	if d1 != 1 || d2 != -2 {
		t.Errorf("翻转序列增量 = %d, %d, want 1, -2", d1, d2)
	}
}

func TestApplyVoteInvalidInput(t *testing.T) {
	// 非法方向和非法目标类型都不许碰存储
	if _, err := ApplyVote(1, TargetPost, 2, 5); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := ApplyVote(1, "board", 2, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

// 首次点赞：插记录、帖子票数 +1、作者声望 +1、热度分重算
func TestApplyVoteFirstUpvote(t *testing.T) {
	mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "deleted"}).
			AddRow(7, 3, false))
	mock.ExpectQuery(`SELECT .+ FROM "votes" .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "value"}))
	mock.ExpectQuery(`INSERT INTO "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "posts" SET "points"=points \+ \$1`).
		WithArgs(1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "karma_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "users" SET "karma"=karma \+ \$1`).
		WithArgs(1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// 投票落库后重读票数重算热度分
	mock.ExpectQuery(`SELECT .+ FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "points", "created_at"}).
			AddRow(7, 1, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET "score"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	delta, err := ApplyVote(2, TargetPost, 7, 1)
	if err != nil {
		t.Fatalf("ApplyVote: %v", err)
	}
	if delta != 1 {
		t.Errorf("delta = %d, want 1", delta)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 再点一次同方向：删记录，净增量 -1
func TestApplyVoteUndo(t *testing.T) {
	mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "deleted"}).
			AddRow(7, 3, false))
	mock.ExpectQuery(`SELECT .+ FROM "votes" .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "value"}).
			AddRow(11, 2, 7, 1))
	mock.ExpectExec(`DELETE FROM "votes"`).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET "points"=points \+ \$1`).
		WithArgs(-1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "karma_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec(`UPDATE "users" SET "karma"=karma \+ \$1`).
		WithArgs(-1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT .+ FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "points", "created_at"}).
			AddRow(7, 0, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET "score"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	delta, err := ApplyVote(2, TargetPost, 7, 1)
	if err != nil {
		t.Fatalf("ApplyVote: %v", err)
	}
	if delta != -1 {
		t.Errorf("delta = %d, want -1", delta)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 插入撞唯一键（并发首票输掉的一方）：回滚后重试一次，
// 重读读到赢家落下的同方向记录，按撤销路径收尾
func TestApplyVoteRetryAfterDuplicate(t *testing.T) {
	mock, cleanup := newMockDB(t)
	defer cleanup()

	// 第一次尝试：读到"无记录"，插入时对方已经落库
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "deleted"}).
			AddRow(7, 3, false))
	mock.ExpectQuery(`SELECT .+ FROM "votes" .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "value"}))
	mock.ExpectQuery(`INSERT INTO "votes"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	// 重试：读到赢家的 +1，同方向请求转为撤销
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "deleted"}).
			AddRow(7, 3, false))
	mock.ExpectQuery(`SELECT .+ FROM "votes" .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "value"}).
			AddRow(11, 2, 7, 1))
	mock.ExpectExec(`DELETE FROM "votes"`).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET "points"=points \+ \$1`).
		WithArgs(-1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "karma_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(`UPDATE "users" SET "karma"=karma \+ \$1`).
		WithArgs(-1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT .+ FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "points", "created_at"}).
			AddRow(7, 0, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET "score"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	delta, err := ApplyVote(2, TargetPost, 7, 1)
	if err != nil {
		t.Fatalf("ApplyVote: %v", err)
	}
	if delta != -1 {
		t.Errorf("delta = %d, want -1", delta)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 连撞两次唯一键：只重试一次，然后对外报 Conflict
func TestApplyVoteConflictAfterTwoDuplicates(t *testing.T) {
	mock, cleanup := newMockDB(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .+ FROM "posts"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "deleted"}).
				AddRow(7, 3, false))
		mock.ExpectQuery(`SELECT .+ FROM "votes" .+ FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "value"}))
		mock.ExpectQuery(`INSERT INTO "votes"`).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()
	}

	if _, err := ApplyVote(2, TargetPost, 7, 1); !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}

// 目标已软删：NotFound，事务回滚，什么都不动
func TestApplyVoteDeletedTarget(t *testing.T) {
	mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "deleted"}).
			AddRow(7, 3, true))
	mock.ExpectRollback()

	if _, err := ApplyVote(2, TargetPost, 7, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("未满足的期望: %v", err)
	}
}
