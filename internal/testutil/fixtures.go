package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
)

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := nextSeq()
	email := fmt.Sprintf("test_%d_%d@example.com", time.Now().UnixNano(), n)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d_%d", time.Now().UnixNano()%100000, n),
		Email:        &email,
		PasswordHash: &passwordHash,
		Role:         model.RoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// TestBook 创建已上架的测试作品
func TestBook(t *testing.T, db *gorm.DB, authorID int64, opts ...func(*model.Book)) *model.Book {
	t.Helper()

	book := &model.Book{
		AuthorID:    authorID,
		Title:       fmt.Sprintf("测试作品_%d", nextSeq()),
		Summary:     "测试简介",
		IsPublished: true,
	}

	for _, opt := range opts {
		opt(book)
	}

	if err := db.Create(book).Error; err != nil {
		t.Fatalf("Failed to create test book: %v", err)
	}

	return book
}

// WithUnpublished 设置作品为未上架
func WithUnpublished() func(*model.Book) {
	return func(b *model.Book) {
		b.IsPublished = false
	}
}

// TestChapter 创建已发布的测试章节，正文默认三段
func TestChapter(t *testing.T, db *gorm.DB, bookID int64, seq int, opts ...func(*model.Chapter)) *model.Chapter {
	t.Helper()

	now := time.Now()
	chapter := &model.Chapter{
		BookID:      bookID,
		Seq:         seq,
		Title:       fmt.Sprintf("第%d章", seq),
		Content:     "第一段内容。\n\n第二段内容。\n\n第三段内容。",
		PublishedAt: &now,
	}

	for _, opt := range opts {
		opt(chapter)
	}

	if err := db.Create(chapter).Error; err != nil {
		t.Fatalf("Failed to create test chapter: %v", err)
	}

	return chapter
}

// WithDraft 设置章节为草稿
func WithDraft() func(*model.Chapter) {
	return func(c *model.Chapter) {
		c.PublishedAt = nil
	}
}

// WithContent 设置章节正文
func WithContent(content string) func(*model.Chapter) {
	return func(c *model.Chapter) {
		c.Content = content
	}
}

// TestComment 创建测试评论
func TestComment(t *testing.T, db *gorm.DB, userID, bookID int64, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:  userID,
		BookID:  bookID,
		Content: fmt.Sprintf("测试评论_%d", nextSeq()),
	}

	for _, opt := range opts {
		opt(comment)
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// WithScope 设置评论作用域
func WithScope(chapterID *int64, paragraph *int) func(*model.Comment) {
	return func(c *model.Comment) {
		c.ChapterID = chapterID
		c.Paragraph = paragraph
	}
}

// WithParent 设置父评论
func WithParent(parentID int64) func(*model.Comment) {
	return func(c *model.Comment) {
		c.ParentID = &parentID
	}
}

// WithCreatedAt 设置评论时间
func WithCreatedAt(at time.Time) func(*model.Comment) {
	return func(c *model.Comment) {
		c.CreatedAt = at
	}
}

// TestBoard 创建测试讨论贴
func TestBoard(t *testing.T, db *gorm.DB, userID int64) *model.Board {
	t.Helper()

	board := &model.Board{
		UserID:  userID,
		Title:   fmt.Sprintf("测试讨论贴_%d", nextSeq()),
		Content: "讨论内容",
	}

	if err := db.Create(board).Error; err != nil {
		t.Fatalf("Failed to create test board: %v", err)
	}

	return board
}

// TestFollow 创建关注记录
func TestFollow(t *testing.T, db *gorm.DB, followerID int64, targetType string, targetID int64) *model.Follow {
	t.Helper()

	follow := &model.Follow{
		FollowerID: followerID,
		TargetType: targetType,
		TargetID:   targetID,
	}

	if err := db.Create(follow).Error; err != nil {
		t.Fatalf("Failed to create test follow: %v", err)
	}

	return follow
}
