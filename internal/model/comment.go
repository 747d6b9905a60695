package model

import (
	"time"
)

// Comment 作品评论。作用域由三元组 (BookID, ChapterID, Paragraph) 决定：
// 整本书评论两者皆空；章节评论只有 ChapterID；段评两者都有。
// ParentID 永远指向根评论（只支持一级回复）。
type Comment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	BookID    int64     `gorm:"not null;index" json:"book_id"`
	ChapterID *int64    `gorm:"index" json:"chapter_id,omitempty"`
	Paragraph *int      `gorm:"index" json:"paragraph,omitempty"`
	ParentID  *int64    `gorm:"index" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// 关联
	User    *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []*Comment `gorm:"-" json:"replies,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsReply 是否为回复
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
