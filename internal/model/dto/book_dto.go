package dto

// CreateBookRequest 创建作品请求
type CreateBookRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Summary string `json:"summary" binding:"max=2000"`
}

// BookItem 作品列表项
type BookItem struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary"`
	CoverURL     string     `json:"cover_url"`
	Author       *UserInfo  `json:"author,omitempty"`
	VoteCount    int        `json:"vote_count"`
	CommentCount int        `json:"comment_count"`
	CreatedAt    string     `json:"created_at"`
}

// CreateChapterRequest 创建章节请求
type CreateChapterRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1"`
}

// ChapterItem 章节列表项
type ChapterItem struct {
	ID          int64  `json:"id"`
	BookID      int64  `json:"book_id"`
	Seq         int    `json:"seq"`
	Title       string `json:"title"`
	PublishedAt string `json:"published_at,omitempty"`
}

// ChapterDetail 章节正文
type ChapterDetail struct {
	ID         int64    `json:"id"`
	BookID     int64    `json:"book_id"`
	Seq        int      `json:"seq"`
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
}
