package models

import (
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title     string    `gorm:"not null" json:"title"`
	Text      string    `gorm:"type:text" json:"text"`
	Points    int       `gorm:"default:0" json:"points"` // 冗余聚合值，只通过投票事务增减
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 非数据库字段，用于查询时填充
	TextSnippet string `gorm:"-" json:"text_snippet"`
	ContentHTML string `gorm:"-" json:"content_html"`
	VoteStatus  *int   `gorm:"-" json:"vote_status"` // 当前用户的投票 (+1/-1)，未投票或未登录为 null
}
