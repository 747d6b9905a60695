package dto

// 链接目标类型
const (
	LinkKindParagraphThread = "paragraph_thread" // 段评面板，定位到段落并高亮评论
	LinkKindChapterComments = "chapter_comments" // 章节讨论区，定位到评论
	LinkKindBookComments    = "book_comments"    // 书评区，定位到评论
	LinkKindBook            = "book"             // 作品主页
	LinkKindChapter         = "chapter"          // 章节正文
	LinkKindBoard           = "board"            // 讨论贴
	LinkKindProfile         = "profile"          // 用户主页
)

// LinkTarget 通知跳转目标
type LinkTarget struct {
	Kind      string `json:"kind"`
	BookID    *int64 `json:"book_id,omitempty"`
	ChapterID *int64 `json:"chapter_id,omitempty"`
	Paragraph *int   `json:"paragraph,omitempty"`
	CommentID *int64 `json:"comment_id,omitempty"`
	BoardID   *int64 `json:"board_id,omitempty"`
	UserID    *int64 `json:"user_id,omitempty"`
}

// NotificationItem 通知列表项，附带展示文案和跳转目标
type NotificationItem struct {
	ID        int64       `json:"id"`
	Type      string      `json:"type"`
	ActorName string      `json:"actor_name"`
	Text      string      `json:"text"`
	Link      *LinkTarget `json:"link"`
	IsRead    bool        `json:"is_read"`
	CreatedAt string      `json:"created_at"`
}

// UnreadCountResponse 未读数响应
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
