package services

import (
	"errors"
	"fmt"
	"time"
	"updoot/internal/models"
	"updoot/internal/utils"

	"gorm.io/gorm"
)

// MaxPageSize 分页上限，服务端强制，与调用方传入值无关
const MaxPageSize = 50

// snippetLength 列表接口返回的正文摘要长度
const snippetLength = 50

// PostPage 一页帖子和是否还有下一页
type PostPage struct {
	Posts   []models.Post `json:"posts"`
	HasMore bool          `json:"has_more"`
}

// PostService 负责帖子的查询与增删改。
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// List 游标分页：按创建时间倒序，游标为时间戳，窗口为 created_at < cursor
// （严格小于，避免边界行重复出现）。游标为空时从当前时间开始。
// 多取一行来判断 hasMore，省掉第二次 count 查询。
// viewerID 为 0 表示未登录，只影响 VoteStatus 标注，查询本身只读。
func (s *PostService) List(limit int, cursor *time.Time, viewerID uint) (*PostPage, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	before := time.Now()
	if cursor != nil {
		before = *cursor
	}

	var posts []models.Post
	err := s.db.Preload("User").
		Where("created_at < ?", before).
		Order("created_at DESC").
		Limit(limit + 1).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	for i := range posts {
		posts[i].TextSnippet = utils.Snippet(posts[i].Text, snippetLength)
	}

	if err := s.fillVoteStatus(posts, viewerID); err != nil {
		return nil, err
	}

	return &PostPage{Posts: posts, HasMore: hasMore}, nil
}

// fillVoteStatus 批量填充当前用户对一页帖子的投票状态。
// 未登录（viewerID == 0）和未投票统一保持 nil。
func (s *PostService) fillVoteStatus(posts []models.Post, viewerID uint) error {
	if viewerID == 0 || len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var votes []models.Vote
	err := s.db.
		Where("user_id = ? AND post_id IN ?", viewerID, postIDs).
		Find(&votes).Error
	if err != nil {
		return fmt.Errorf("query votes: %w", err)
	}

	statusMap := make(map[uint]int, len(votes))
	for _, v := range votes {
		statusMap[v.PostID] = v.Value
	}

	for i := range posts {
		if value, ok := statusMap[posts[i].ID]; ok {
			v := value
			posts[i].VoteStatus = &v
		}
	}
	return nil
}

// Get 帖子详情，正文渲染为净化后的 HTML
func (s *PostService) Get(id uint, viewerID uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("query post: %w", err)
	}

	post.TextSnippet = utils.Snippet(post.Text, snippetLength)
	post.ContentHTML = utils.RenderMarkdown(post.Text)

	if viewerID != 0 {
		var vote models.Vote
		err := s.db.Where("user_id = ? AND post_id = ?", viewerID, id).First(&vote).Error
		if err == nil {
			post.VoteStatus = &vote.Value
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("query vote: %w", err)
		}
	}

	return &post, nil
}

// Create 创建帖子，作者是当前登录用户
func (s *PostService) Create(userID uint, title, text string) (*models.Post, error) {
	post := models.Post{
		UserID: userID,
		Title:  title,
		Text:   text,
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := s.db.Preload("User").First(&post, post.ID).Error; err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	return &post, nil
}

// Update 更新帖子，仅作者可编辑
func (s *PostService) Update(userID, id uint, title, text string) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("query post: %w", err)
	}

	if post.UserID != userID {
		return nil, ErrNotPostAuthor
	}

	updates := map[string]interface{}{"title": title, "text": text}
	if err := s.db.Model(&post).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	if err := s.db.Preload("User").First(&post, id).Error; err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	return &post, nil
}

// Delete 删除帖子及其投票记录，仅作者可删除
func (s *PostService) Delete(userID, id uint) error {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("query post: %w", err)
	}

	if post.UserID != userID {
		return ErrNotPostAuthor
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// 投票记录的生命周期跟随帖子
		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}
