package dto

// CreateBoardRequest 创建讨论贴请求
type CreateBoardRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

// BoardItem 讨论贴列表项
type BoardItem struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	User         *CommentUser `json:"user,omitempty"`
	VoteCount    int          `json:"vote_count"`
	CommentCount int          `json:"comment_count"`
	CreatedAt    string       `json:"created_at"`
}

// CreateBoardCommentRequest 创建讨论贴评论请求
type CreateBoardCommentRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	ParentID *int64 `json:"parent_id,omitempty"`
}
