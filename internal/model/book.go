package model

import (
	"time"
)

type Book struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	AuthorID     int64     `gorm:"not null;index" json:"author_id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Summary      string    `gorm:"type:text" json:"summary"`
	CoverURL     string    `gorm:"size:500" json:"cover_url"`
	IsPublished  bool      `gorm:"default:false;index" json:"is_published"`
	VoteCount    int       `gorm:"default:0" json:"vote_count"`
	CommentCount int       `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// 关联
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Book) TableName() string {
	return "books"
}
