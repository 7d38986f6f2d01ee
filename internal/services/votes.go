package services

import (
	"errors"
	"log"
	"shulin/internal/db"
	"shulin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 投票目标类型
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// 核心操作的错误分类，handler 层负责映射到 HTTP 状态码
var (
	ErrInvalidInput = errors.New("参数不合法")
	ErrNotFound     = errors.New("目标不存在")
	ErrConflict     = errors.New("投票冲突，请重试")
)

// VoteAction 状态机决定的持久化动作
type VoteAction int

const (
	VoteNoop VoteAction = iota
	VoteInsert
	VoteUpdate
	VoteRemove
)

// Transition 投票状态机：(当前方向, 请求方向) -> (动作, 票数增量)。
// 纯函数，不碰存储。
//
//	无记录  + ±1      -> 插入，增量 = 请求方向
//	同方向  再点一次   -> 视为撤销，删除记录，增量 = -当前方向
//	反方向            -> 原地改写，增量 = ±2
//	请求 0            -> 有记录按撤销处理，无记录为空操作
//
// 0 从不落库：没有记录本身就是中立态
func Transition(current, requested int) (VoteAction, int, error) {
	if requested < -1 || requested > 1 {
		return VoteNoop, 0, ErrInvalidInput
	}
	if current != -1 && current != 0 && current != 1 {
		return VoteNoop, 0, ErrInvalidInput
	}

	switch {
	case requested == 0:
		if current == 0 {
			return VoteNoop, 0, nil
		}
		return VoteRemove, -current, nil
	case current == 0:
		return VoteInsert, requested, nil
	case current == requested:
		return VoteRemove, -current, nil
	default:
		return VoteUpdate, requested - current, nil
	}
}

// ApplyVote 落一次投票，返回票数净增量（调用方用它修正客户端的乐观状态）。
//
// 同一用户对同一目标的并发请求在存储层串行化，不靠应用逻辑碰运气：
// 已有记录的撤销/改向在事务里先对旧票行加锁（SELECT ... FOR UPDATE），
// 后到的事务等前者提交后按最新状态重新决策；两个请求都读到"无记录"
// 时没有行可锁，由 (user_id, post_id/comment_id) 唯一索引兜底——只有
// 一个能插入成功，另一个吃到唯一键冲突后重读重试一次，再失败才对外
// 报 Conflict。不同用户之间的投票互相独立，计数增量可交换，无需额外互斥。
func ApplyVote(voterID uint, targetType string, targetID uint, requested int) (int, error) {
	if targetType != TargetPost && targetType != TargetComment {
		return 0, ErrInvalidInput
	}
	// 方向先过一遍状态机，非法输入不碰存储
	if _, _, err := Transition(0, requested); err != nil {
		return 0, err
	}

	delta, err := applyVoteOnce(voterID, targetType, targetID, requested)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		delta, err = applyVoteOnce(voterID, targetType, targetID, requested)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrConflict
		}
	}
	if err != nil {
		return 0, err
	}

	// 票数变了就同步重算帖子热度分。排名新鲜度是次级效果：
	// 重算失败只记日志，绝不回滚已落库的投票
	if targetType == TargetPost && delta != 0 {
		if err := RefreshPostScore(targetID); err != nil {
			log.Printf("帖子 %d 投票后重算热度分失败: %v", targetID, err)
		}
	}

	return delta, nil
}

// applyVoteOnce 单次尝试：读旧票、转移、落库、改计数、记声望，全在一个事务里。
// 四步观察到的都是同一次旧票读取算出的增量
func applyVoteOnce(voterID uint, targetType string, targetID uint, requested int) (int, error) {
	var delta int

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// 目标必须存在且未删除
		var authorID uint
		if targetType == TargetPost {
			var post models.Post
			if err := tx.Select("id", "user_id", "deleted").First(&post, targetID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if post.Deleted {
				return ErrNotFound
			}
			authorID = post.UserID
		} else {
			var comment models.Comment
			if err := tx.Select("id", "user_id", "deleted").First(&comment, targetID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if comment.Deleted {
				return ErrNotFound
			}
			authorID = comment.UserID
		}

		// 读旧票并加行锁：撤销/改向基于这次读取算增量，锁住旧票行
		// 才能保证并发的同用户请求排队后各自对着已提交的最新状态决策，
		// 而不是两边都按同一份旧读去删行、减计数
		query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", voterID)
		if targetType == TargetPost {
			query = query.Where("post_id = ?", targetID)
		} else {
			query = query.Where("comment_id = ?", targetID)
		}

		var existing models.Vote
		current := 0
		if err := query.First(&existing).Error; err == nil {
			current = existing.Value
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		action, d, err := Transition(current, requested)
		if err != nil {
			return err
		}
		delta = d

		switch action {
		case VoteNoop:
			return nil
		case VoteInsert:
			newVote := models.Vote{UserID: voterID, Value: requested}
			if targetType == TargetPost {
				newVote.PostID = &targetID
			} else {
				newVote.CommentID = &targetID
			}
			if err := tx.Create(&newVote).Error; err != nil {
				return err
			}
		case VoteUpdate:
			if err := tx.Model(&models.Vote{}).Where("id = ?", existing.ID).
				Update("value", requested).Error; err != nil {
				return err
			}
		case VoteRemove:
			if err := tx.Delete(&models.Vote{}, existing.ID).Error; err != nil {
				return err
			}
		}

		// 计数一律走相对更新，不在应用内读改写——不同用户并发加减才不会互相覆盖
		if targetType == TargetPost {
			if err := tx.Model(&models.Post{}).Where("id = ?", targetID).
				UpdateColumn("points", gorm.Expr("points + ?", delta)).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&models.Comment{}).Where("id = ?", targetID).
				UpdateColumn("points", gorm.Expr("points + ?", delta)).Error; err != nil {
				return err
			}
		}

		// 作者声望跟着同一增量变动。自己投自己也照记（原有行为，保持一致）
		return AddKarmaTx(tx, authorID, delta, voteKarmaAction(targetType, delta))
	})

	return delta, err
}

func voteKarmaAction(targetType string, delta int) string {
	if targetType == TargetPost {
		if delta > 0 {
			return ActionPostUpvoted
		}
		return ActionPostDownvoted
	}
	if delta > 0 {
		return ActionCommentUpvoted
	}
	return ActionCommentDownvoted
}
