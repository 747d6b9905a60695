package model

import (
	"time"
)

// Board 独立讨论贴，不挂在任何作品下
type Board struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Content      string    `gorm:"type:text" json:"content"`
	VoteCount    int       `gorm:"default:0" json:"vote_count"`
	CommentCount int       `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Board) TableName() string {
	return "boards"
}

// BoardComment 讨论贴评论，同样只支持一级回复
type BoardComment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	BoardID   int64     `gorm:"not null;index" json:"board_id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ParentID  *int64    `gorm:"index" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (BoardComment) TableName() string {
	return "board_comments"
}
