package model

import (
	"strings"
	"time"
)

type Chapter struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	BookID      int64      `gorm:"not null;index" json:"book_id"`
	Seq         int        `gorm:"not null" json:"seq"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Content     string     `gorm:"type:longtext" json:"content"`
	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"` // nil 表示草稿
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// IsPublished 是否已发布
func (c *Chapter) IsPublished() bool {
	return c.PublishedAt != nil
}

// Paragraphs 按空行切分正文，段落序号即评论锚点
func (c *Chapter) Paragraphs() []string {
	parts := strings.Split(c.Content, "\n\n")
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
