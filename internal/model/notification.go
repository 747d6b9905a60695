package model

import (
	"time"
)

// 通知类型
const (
	NotificationTypeVote         = "vote"          // 作品被点赞
	NotificationTypeChapterVote  = "chapter_vote"  // 章节被点赞
	NotificationTypeComment      = "comment"       // 作品/章节收到评论
	NotificationTypeNewChapter   = "new_chapter"   // 关注的作品更新章节
	NotificationTypeBoardVote    = "board_vote"    // 讨论贴被点赞
	NotificationTypeBoardComment = "board_comment" // 讨论贴收到评论
	NotificationTypeReply        = "reply"         // 评论被回复
	NotificationTypeFollow       = "follow"        // 被关注
)

// Notification 站内通知。目标字段按类型取用，未用到的留空。
// Paragraph 非空时表示评论发生在段评面板内，跳转需还原到段落位置。
type Notification struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	RecipientID int64     `gorm:"not null;index" json:"recipient_id"`
	ActorID     int64     `gorm:"not null" json:"actor_id"`
	ActorName   string    `gorm:"size:50;not null" json:"actor_name"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	BookID      *int64    `json:"book_id,omitempty"`
	ChapterID   *int64    `json:"chapter_id,omitempty"`
	Paragraph   *int      `json:"paragraph,omitempty"`
	CommentID   *int64    `json:"comment_id,omitempty"`
	BoardID     *int64    `json:"board_id,omitempty"`
	IsRead      bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
