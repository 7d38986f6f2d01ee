package services

import (
	"errors"
	"time"

	"shulin/internal/config"
	"shulin/internal/db"
	"shulin/internal/models"
	"shulin/internal/utils"

	"gorm.io/gorm"
)

// maxReplyDepth 预览回复的递归深度上限。更深的分支靠
// "加载更多回复"（带 ParentID 的调用）继续展开
const maxReplyDepth = 3

// CommentNode 树节点：评论本体 + 子回复分页句柄。
// HasMore 为真表示该节点还有未取出的子回复
type CommentNode struct {
	models.Comment
	Replies []*CommentNode `json:"replies"`
	HasMore bool           `json:"has_more"`
}

// CommentTree 一页评论树
type CommentTree struct {
	Comments      []*CommentNode `json:"comments"`
	EndOfComments bool           `json:"end_of_comments"`
}

// TreeOptions 评论树请求参数。ParentID 为 nil 时取根评论页，
// 否则严格在该评论的子回复里翻页
type TreeOptions struct {
	PostID   uint
	Sort     string
	Cursor   utils.Cursor
	ParentID *uint
	ViewerID uint
}

// GetCommentTree 组装有界深度、有界扇出的评论树。
// 根评论页的每个节点都带上少量预览回复，免得前端为展开再跑一轮；
// 翻页规则和帖子流共用一套分页器。
// 软删的评论保留在树里（子孙还要挂在它下面），作者和内容抹掉。
func GetCommentTree(opts TreeOptions) (*CommentTree, error) {
	query := db.DB.Model(&models.Comment{}).
		Preload("User").
		Where("post_id = ?", opts.PostID)

	if opts.ParentID != nil {
		// 先确认父评论真的挂在这个帖子下
		var parent models.Comment
		if err := db.DB.Select("id", "post_id").First(&parent, *opts.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if parent.PostID != opts.PostID {
			return nil, ErrNotFound
		}
		query = query.Where("parent_id = ?", *opts.ParentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	query = utils.PaginateComments(query, opts.Sort, opts.Cursor, config.CommentPageSize)

	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, err
	}

	comments, end := utils.TrimPage(comments, config.CommentPageSize)

	nodes := make([]*CommentNode, len(comments))
	for i := range comments {
		nodes[i] = &CommentNode{Comment: comments[i]}
		if err := loadPreviewReplies(nodes[i], opts.Sort, 1); err != nil {
			return nil, err
		}
	}

	if err := fillTreeViewerVotes(nodes, opts.ViewerID); err != nil {
		return nil, err
	}
	scrubDeleted(nodes)

	return &CommentTree{Comments: nodes, EndOfComments: end}, nil
}

// loadPreviewReplies 递归挂预览回复：每层最多 ReplyPreviewLimit 条，
// 最深 maxReplyDepth 层——上限由结构保证，不靠调用方自觉
func loadPreviewReplies(node *CommentNode, sort string, depth int) error {
	if depth > maxReplyDepth || node.ChildCount == 0 {
		return nil
	}

	var children []models.Comment
	if err := db.DB.Model(&models.Comment{}).
		Preload("User").
		Where("parent_id = ?", node.ID).
		Order(utils.CommentOrderClause(sort)).
		Limit(config.ReplyPreviewLimit).
		Find(&children).Error; err != nil {
		return err
	}

	node.HasMore = node.ChildCount > len(children)
	node.Replies = make([]*CommentNode, len(children))
	for i := range children {
		node.Replies[i] = &CommentNode{Comment: children[i]}
		if err := loadPreviewReplies(node.Replies[i], sort, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// fillTreeViewerVotes 收齐整棵树的评论 ID 后一次查投票，从不逐条查
func fillTreeViewerVotes(nodes []*CommentNode, viewerID uint) error {
	if viewerID == 0 || len(nodes) == 0 {
		return nil
	}

	var ids []uint
	walkTree(nodes, func(n *CommentNode) {
		ids = append(ids, n.ID)
	})

	var votes []models.Vote
	if err := db.DB.
		Where("user_id = ? AND comment_id IN ?", viewerID, ids).
		Find(&votes).Error; err != nil {
		return err
	}

	voteMap := make(map[uint]int, len(votes))
	for _, v := range votes {
		if v.CommentID != nil {
			voteMap[*v.CommentID] = v.Value
		}
	}

	walkTree(nodes, func(n *CommentNode) {
		n.ViewerVote = voteMap[n.ID]
	})
	return nil
}

// scrubDeleted 墓碑化：软删节点保留位置（子孙还可达），字段抹空
func scrubDeleted(nodes []*CommentNode) {
	walkTree(nodes, func(n *CommentNode) {
		if n.Deleted {
			n.Content = ""
			n.UserID = 0
			n.User = nil
			n.ViewerVote = 0
		}
	})
}

func walkTree(nodes []*CommentNode, fn func(*CommentNode)) {
	for _, n := range nodes {
		fn(n)
		walkTree(n.Replies, fn)
	}
}

// CreateComment 发评论。帖子的评论总数/根评论数、父评论的子回复数
// 这些反范式计数都在插入的同一事务里相对更新
func CreateComment(postID, userID uint, parentID *uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, ErrInvalidInput
	}

	comment := models.Comment{
		Cid:      utils.RandPublicID(8),
		PostID:   postID,
		UserID:   userID,
		Content:  content,
		ParentID: parentID,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "deleted").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if post.Deleted {
			return ErrNotFound
		}

		if parentID != nil {
			var parent models.Comment
			if err := tx.Select("id", "post_id").First(&parent, *parentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if parent.PostID != postID {
				return ErrInvalidInput
			}
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
			return err
		}
		if parentID == nil {
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("root_comment_count", gorm.Expr("root_comment_count + 1")).Error
		}
		return tx.Model(&models.Comment{}).Where("id = ?", *parentID).
			UpdateColumn("child_count", gorm.Expr("child_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// DeleteComment 软删：只立墓碑，树结构不动
func DeleteComment(commentID uint) error {
	now := time.Now()
	return db.DB.Model(&models.Comment{}).
		Where("id = ?", commentID).
		Updates(map[string]interface{}{"deleted": true, "deleted_at": &now}).
		Error
}
