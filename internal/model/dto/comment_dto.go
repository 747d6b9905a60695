package dto

// CreateCommentRequest 创建评论请求。
// ChapterID 为空表示书评；Paragraph 非空时必须同时给出 ChapterID。
type CreateCommentRequest struct {
	Content   string `json:"content" binding:"required,min=1,max=2000"`
	ChapterID *int64 `json:"chapter_id,omitempty"`
	Paragraph *int   `json:"paragraph,omitempty"`
	ParentID  *int64 `json:"parent_id,omitempty"`
}

// ReportCommentRequest 举报评论请求
type ReportCommentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CommentItem 评论项
type CommentItem struct {
	ID        int64          `json:"id"`
	User      *CommentUser   `json:"user"`
	Content   string         `json:"content"`
	ChapterID *int64         `json:"chapter_id,omitempty"`
	Paragraph *int           `json:"paragraph,omitempty"`
	ParentID  *int64         `json:"parent_id,omitempty"`
	Replies   []*CommentItem `json:"replies,omitempty"`
	CreatedAt string         `json:"created_at"`
}

// CommentUser 评论用户信息
type CommentUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}
