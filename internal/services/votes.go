package services

import (
	"errors"
	"fmt"
	"updoot/internal/models"

	"gorm.io/gorm"
)

// VoteService 负责投票与帖子分数的一致性维护。
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// directionValue 把投票方向转成 +1/-1，其他输入一律拒绝。
// 没有"取消投票"方向：撤票通过重复同方向投票完成。
func directionValue(direction string) (int, error) {
	switch direction {
	case "up":
		return 1, nil
	case "down":
		return -1, nil
	default:
		return 0, ErrInvalidVote
	}
}

// Apply 对帖子投票，维护 post.points 与投票记录的一致性。
// 三种状态转移：
//   - 无已有投票：创建投票，points += value
//   - 已有同方向投票（重复点击）：视为撤票，删除投票，points -= value
//   - 已有反方向投票：改票，points += 2*value
//
// 投票记录和分数更新在同一事务内提交，分数用 SQL 端增量
// （points = points + ?）避免应用层读改写在并发下丢失更新。
func (s *VoteService) Apply(userID, postID uint, direction string) (*models.Post, error) {
	value, err := directionValue(direction)
	if err != nil {
		return nil, err
	}

	var newStatus *int

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// 写之前先确认帖子存在
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("query post: %w", err)
		}

		var existing models.Vote
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 首次投票
			vote := models.Vote{UserID: userID, PostID: postID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return fmt.Errorf("create vote: %w", err)
			}
			newStatus = &vote.Value
			return addPoints(tx, postID, value)

		case err != nil:
			return fmt.Errorf("query vote: %w", err)

		case existing.Value == value:
			// 重复同方向 = 撤票
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("delete vote: %w", err)
			}
			return addPoints(tx, postID, -value)

		default:
			// 反方向 = 改票，旧票撤销和新票生效一步完成
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return fmt.Errorf("update vote: %w", err)
			}
			newStatus = &value
			return addPoints(tx, postID, 2*value)
		}
	})
	if err != nil {
		return nil, err
	}

	// 返回更新后的帖子，标注调用者当前的投票状态（撤票后为 nil）
	var post models.Post
	if err := s.db.Preload("User").First(&post, postID).Error; err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	post.VoteStatus = newStatus
	return &post, nil
}

// addPoints SQL 端增量更新帖子分数
func addPoints(tx *gorm.DB, postID uint, delta int) error {
	if err := tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).
		Error; err != nil {
		return fmt.Errorf("update points: %w", err)
	}
	return nil
}
