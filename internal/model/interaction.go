package model

import (
	"time"
)

// 点赞目标类型
const (
	VoteTargetBook    = "book"
	VoteTargetChapter = "chapter"
	VoteTargetBoard   = "board"
)

// 关注目标类型
const (
	FollowTargetAuthor = "author"
	FollowTargetBook   = "book"
)

type Vote struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_vote_user_target" json:"user_id"`
	TargetType string    `gorm:"size:20;not null;uniqueIndex:idx_vote_user_target" json:"target_type"`
	TargetID   int64     `gorm:"not null;uniqueIndex:idx_vote_user_target" json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Vote) TableName() string {
	return "votes"
}

type Follow struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	FollowerID int64     `gorm:"not null;uniqueIndex:idx_follow_user_target" json:"follower_id"`
	TargetType string    `gorm:"size:20;not null;uniqueIndex:idx_follow_user_target" json:"target_type"`
	TargetID   int64     `gorm:"not null;uniqueIndex:idx_follow_user_target;index" json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
