package services

import (
	"time"

	"shulin/internal/config"
	"shulin/internal/db"
	"shulin/internal/models"
	"shulin/internal/utils"
)

// FeedOptions 信息流请求参数。BoardID 为 0 表示全站流，
// ViewerID 为 0 表示匿名浏览（所有 viewer_vote 直接报 0，不查表）
type FeedOptions struct {
	BoardID  uint
	Sort     string
	Time     string
	Cursor   utils.Cursor
	ViewerID uint
}

// FeedPage 一页信息流
type FeedPage struct {
	Items      []models.Post `json:"items"`
	EndOfItems bool          `json:"end_of_items"`
}

// GetPostFeed 组装一页帖子流：排序和翻页交给分页器，多取一行判到底，
// 再把浏览者自己的投票方向一次性批量并入
func GetPostFeed(opts FeedOptions) (*FeedPage, error) {
	query := db.DB.Model(&models.Post{}).
		Preload("User").Preload("Board").
		Where("deleted = ?", false)

	if opts.BoardID > 0 {
		query = query.Where("board_id = ?", opts.BoardID)
	}
	if cutoff, ok := utils.TimeCutoff(opts.Time, time.Now()); ok {
		query = query.Where("created_at >= ?", cutoff)
	}

	query = utils.Paginate(query, opts.Sort, opts.Cursor, config.PageSize)

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}

	posts, end := utils.TrimPage(posts, config.PageSize)

	if err := fillPostViewerVotes(posts, opts.ViewerID); err != nil {
		return nil, err
	}

	return &FeedPage{Items: posts, EndOfItems: end}, nil
}

// fillPostViewerVotes 一次查询补全整页的浏览者投票方向，从不逐条查。
// 没投过票的条目保持 0
func fillPostViewerVotes(posts []models.Post, viewerID uint) error {
	if viewerID == 0 || len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var votes []models.Vote
	if err := db.DB.
		Where("user_id = ? AND post_id IN ?", viewerID, postIDs).
		Find(&votes).Error; err != nil {
		return err
	}

	voteMap := make(map[uint]int, len(votes))
	for _, v := range votes {
		if v.PostID != nil {
			voteMap[*v.PostID] = v.Value
		}
	}

	for i := range posts {
		posts[i].ViewerVote = voteMap[posts[i].ID]
	}
	return nil
}
