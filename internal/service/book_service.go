package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/model/dto"
	"github.com/inkriver/novel_go_server/internal/pkg/queue"
	"github.com/inkriver/novel_go_server/internal/repository"
)

var (
	ErrBookPermission      = errors.New("无权操作此作品")
	ErrChapterPublished    = errors.New("章节已发布")
	ErrChapterNotPublished = errors.New("章节未发布")
)

type BookService struct {
	bookRepo     *repository.BookRepository
	chapterRepo  *repository.ChapterRepository
	userRepo     *repository.UserRepository
	notification *NotificationService
	emailQueue   *queue.Queue // 可为 nil（测试环境），只影响邮件提醒
}

func NewBookService(
	bookRepo *repository.BookRepository,
	chapterRepo *repository.ChapterRepository,
	userRepo *repository.UserRepository,
	notification *NotificationService,
	emailQueue *queue.Queue,
) *BookService {
	return &BookService{
		bookRepo:     bookRepo,
		chapterRepo:  chapterRepo,
		userRepo:     userRepo,
		notification: notification,
		emailQueue:   emailQueue,
	}
}

// CreateBook 创建作品
func (s *BookService) CreateBook(userID int64, req *dto.CreateBookRequest) (*dto.BookItem, error) {
	book := &model.Book{
		AuthorID:    userID,
		Title:       req.Title,
		Summary:     req.Summary,
		IsPublished: true,
	}

	if err := s.bookRepo.Create(book); err != nil {
		return nil, err
	}

	author, _ := s.userRepo.GetByID(userID)
	return s.buildBookItem(book, author), nil
}

// GetBook 获取作品详情
func (s *BookService) GetBook(bookID int64) (*dto.BookItem, error) {
	book, err := s.bookRepo.GetByIDWithAuthor(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	return s.buildBookItem(book, book.Author), nil
}

// ListBooks 获取已上架作品列表
func (s *BookService) ListBooks(page, pageSize int) ([]*dto.BookItem, int64, error) {
	books, total, err := s.bookRepo.ListPublished(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.BookItem, len(books))
	for i, b := range books {
		items[i] = s.buildBookItem(b, b.Author)
	}
	return items, total, nil
}

// CreateChapter 创建章节草稿，只有作品作者可以操作
func (s *BookService) CreateChapter(userID, bookID int64, req *dto.CreateChapterRequest) (*dto.ChapterItem, error) {
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if book.AuthorID != userID {
		return nil, ErrBookPermission
	}

	seq, err := s.chapterRepo.NextSeq(bookID)
	if err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		BookID:  bookID,
		Seq:     seq,
		Title:   req.Title,
		Content: req.Content,
	}

	if err := s.chapterRepo.Create(chapter); err != nil {
		return nil, err
	}

	return s.buildChapterItem(chapter), nil
}

// PublishChapter 发布章节。
// 发布写入提交后同步多播站内通知（每个关注者一行），
// 并把邮件提醒任务丢进队列由 worker 慢慢发。
// 重复发布直接报错，不会二次多播。
func (s *BookService) PublishChapter(userID, chapterID int64) (*dto.ChapterItem, error) {
	chapter, err := s.chapterRepo.GetByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	if chapter.IsPublished() {
		return nil, ErrChapterPublished
	}

	book, err := s.bookRepo.GetByID(chapter.BookID)
	if err != nil {
		return nil, err
	}
	if book.AuthorID != userID {
		return nil, ErrBookPermission
	}

	now := time.Now()
	if err := s.chapterRepo.MarkPublished(chapterID, now); err != nil {
		return nil, err
	}
	chapter.PublishedAt = &now

	// 发布已提交，通知和邮件都是尽力而为
	author, err := s.userRepo.GetByID(userID)
	if err == nil && s.notification != nil {
		if err := s.notification.EmitNewChapter(author, book, chapter); err != nil {
			log.Printf("Failed to emit new chapter notifications for chapter %d: %v", chapter.ID, err)
		}
	}

	if s.emailQueue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		job := &queue.EmailJob{BookID: book.ID, ChapterID: chapter.ID}
		if err := s.emailQueue.Push(ctx, job); err != nil {
			log.Printf("Failed to enqueue email job for chapter %d: %v", chapter.ID, err)
		}
	}

	return s.buildChapterItem(chapter), nil
}

// ListChapters 获取章节列表。非作者只能看到已发布章节。
func (s *BookService) ListChapters(bookID int64, userID *int64) ([]*dto.ChapterItem, error) {
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	publishedOnly := userID == nil || *userID != book.AuthorID
	chapters, err := s.chapterRepo.ListByBookID(bookID, publishedOnly)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ChapterItem, len(chapters))
	for i, c := range chapters {
		items[i] = s.buildChapterItem(c)
	}
	return items, nil
}

// GetChapter 获取章节正文，按段落切分返回（段落序号即评论锚点）
func (s *BookService) GetChapter(chapterID int64, userID *int64) (*dto.ChapterDetail, error) {
	chapter, err := s.chapterRepo.GetByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	if !chapter.IsPublished() {
		book, err := s.bookRepo.GetByID(chapter.BookID)
		if err != nil {
			return nil, err
		}
		if userID == nil || *userID != book.AuthorID {
			return nil, ErrChapterNotPublished
		}
	}

	return &dto.ChapterDetail{
		ID:         chapter.ID,
		BookID:     chapter.BookID,
		Seq:        chapter.Seq,
		Title:      chapter.Title,
		Paragraphs: chapter.Paragraphs(),
	}, nil
}

func (s *BookService) buildBookItem(b *model.Book, author *model.User) *dto.BookItem {
	item := &dto.BookItem{
		ID:           b.ID,
		Title:        b.Title,
		Summary:      b.Summary,
		CoverURL:     b.CoverURL,
		VoteCount:    b.VoteCount,
		CommentCount: b.CommentCount,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}
	if author != nil {
		item.Author = &dto.UserInfo{
			ID:        author.ID,
			Username:  author.Username,
			AvatarURL: author.AvatarURL,
			Bio:       author.Bio,
			Role:      author.Role,
		}
	}
	return item
}

func (s *BookService) buildChapterItem(c *model.Chapter) *dto.ChapterItem {
	item := &dto.ChapterItem{
		ID:     c.ID,
		BookID: c.BookID,
		Seq:    c.Seq,
		Title:  c.Title,
	}
	if c.PublishedAt != nil {
		item.PublishedAt = c.PublishedAt.Format(time.RFC3339)
	}
	return item
}
