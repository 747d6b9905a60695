package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/model/dto"
	"github.com/inkriver/novel_go_server/internal/repository"
)

var (
	ErrBookNotFound         = errors.New("作品不存在")
	ErrBookNotPublished     = errors.New("作品未上架")
	ErrChapterNotFound      = errors.New("章节不存在")
	ErrChapterNotInBook     = errors.New("章节不属于该作品")
	ErrCommentNotFound      = errors.New("评论不存在")
	ErrCommentPermission    = errors.New("无权操作此评论")
	ErrParentNotFound       = errors.New("父评论不存在")
	ErrParentNotInBook      = errors.New("父评论不属于该作品")
	ErrEmptyContent         = errors.New("评论内容不能为空")
	ErrAnchorWithoutChapter = errors.New("段评必须指定章节")
	ErrParagraphOutOfRange  = errors.New("段落序号超出范围")
)

type CommentService struct {
	commentRepo  *repository.CommentRepository
	bookRepo     *repository.BookRepository
	chapterRepo  *repository.ChapterRepository
	userRepo     *repository.UserRepository
	reportRepo   *repository.ReportRepository
	notification *NotificationService
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	bookRepo *repository.BookRepository,
	chapterRepo *repository.ChapterRepository,
	userRepo *repository.UserRepository,
	reportRepo *repository.ReportRepository,
	notification *NotificationService,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		bookRepo:     bookRepo,
		chapterRepo:  chapterRepo,
		userRepo:     userRepo,
		reportRepo:   reportRepo,
		notification: notification,
	}
}

// Create 创建评论。
// 回复统一挂到根评论下（只支持一级回复），并继承根评论的章节和段落锚点，
// 即使回复是在没有锚点的上下文（比如章末评论区）里写的。
func (s *CommentService) Create(userID, bookID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}

	// 段评必须落在具体章节里
	if req.Paragraph != nil && req.ChapterID == nil {
		return nil, ErrAnchorWithoutChapter
	}

	// 验证作品存在且已上架
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if !book.IsPublished {
		return nil, ErrBookNotPublished
	}

	chapterID := req.ChapterID
	paragraph := req.Paragraph

	// 验证章节归属和段落范围
	if chapterID != nil {
		chapter, err := s.chapterRepo.GetByID(*chapterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrChapterNotFound
			}
			return nil, err
		}
		if chapter.BookID != bookID {
			return nil, ErrChapterNotInBook
		}
		if paragraph != nil {
			if *paragraph < 0 || *paragraph >= len(chapter.Paragraphs()) {
				return nil, ErrParagraphOutOfRange
			}
		}
	}

	// 如果是回复，重定向到根评论并继承其作用域
	var directParent *model.Comment
	parentID := req.ParentID
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.BookID != bookID {
			return nil, ErrParentNotInBook
		}
		directParent = parent

		root := parent
		if parent.ParentID != nil {
			root, err = s.commentRepo.GetByID(*parent.ParentID)
			if err != nil {
				return nil, err
			}
		}

		parentID = &root.ID
		chapterID = root.ChapterID
		paragraph = root.Paragraph
	}

	// 获取用户信息
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UserID:    userID,
		BookID:    bookID,
		ChapterID: chapterID,
		Paragraph: paragraph,
		ParentID:  parentID,
		Content:   req.Content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	// 增加评论数
	s.bookRepo.IncrementCommentCount(bookID, 1)

	// 评论已落库，通知发送失败只记录日志，不回滚不重试
	if s.notification != nil {
		var emitErr error
		if directParent != nil {
			// 回复通知发给被回复评论的作者，不是楼主也不是作品作者
			emitErr = s.notification.EmitReply(user, directParent, comment)
		} else {
			emitErr = s.notification.EmitComment(user, book, comment)
		}
		if emitErr != nil {
			log.Printf("Failed to emit notification for comment %d: %v", comment.ID, emitErr)
		}
	}

	return s.buildCommentItem(comment, user), nil
}

// List 获取作用域内的评论列表。
// (book, chapter, paragraph) 三元组精确匹配；排序由作用域决定，见 repository。
func (s *CommentService) List(bookID int64, chapterID *int64, paragraph *int, page, pageSize int) ([]*dto.CommentItem, int64, error) {
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrBookNotFound
		}
		return nil, 0, err
	}
	if !book.IsPublished {
		return nil, 0, ErrBookNotPublished
	}

	comments, total, err := s.commentRepo.ListRootsByScope(bookID, chapterID, paragraph, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	if len(comments) == 0 {
		return []*dto.CommentItem{}, total, nil
	}

	// 收集一级评论ID，批量获取回复
	parentIDs := make([]int64, len(comments))
	for i, c := range comments {
		parentIDs[i] = c.ID
	}

	replies, _ := s.commentRepo.GetRepliesByParentIDs(parentIDs)

	repliesMap := make(map[int64][]*model.Comment)
	for _, r := range replies {
		if r.ParentID != nil {
			repliesMap[*r.ParentID] = append(repliesMap[*r.ParentID], r)
		}
	}

	items := make([]*dto.CommentItem, len(comments))
	for i, c := range comments {
		items[i] = s.buildCommentItem(c, c.User)

		if childReplies, ok := repliesMap[c.ID]; ok {
			items[i].Replies = make([]*dto.CommentItem, len(childReplies))
			for j, r := range childReplies {
				items[i].Replies[j] = s.buildCommentItem(r, r.User)
			}
		}
	}

	return items, total, nil
}

// ListReplies 直接查询某条根评论的回复。
// 根评论被删除后回复仍然保留，这里依旧可查（孤儿回复是明确策略）。
func (s *CommentService) ListReplies(commentID int64) ([]*dto.CommentItem, error) {
	replies, err := s.commentRepo.ListRepliesByParentID(commentID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CommentItem, len(replies))
	for i, r := range replies {
		items[i] = s.buildCommentItem(r, r.User)
	}
	return items, nil
}

// Delete 删除评论。允许：评论作者、作品作者、管理员。
// 不级联删除回复。
func (s *CommentService) Delete(userID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if err := s.checkDeletePermission(userID, comment); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return err
	}

	s.bookRepo.IncrementCommentCount(comment.BookID, -1)
	return nil
}

func (s *CommentService) checkDeletePermission(userID int64, comment *model.Comment) error {
	if comment.UserID == userID {
		return nil
	}

	book, err := s.bookRepo.GetByID(comment.BookID)
	if err == nil && book.AuthorID == userID {
		return nil
	}

	user, err := s.userRepo.GetByID(userID)
	if err == nil && user.IsModerator() {
		return nil
	}

	return ErrCommentPermission
}

// Report 举报评论。举报时抓取内容快照，之后评论被删除或修改不影响审核记录。
// 不去重，重复举报产生重复记录。
func (s *CommentService) Report(userID, commentID int64, reason string) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	report := &model.Report{
		ReporterID:      userID,
		TargetType:      model.ReportTargetComment,
		TargetID:        comment.ID,
		Reason:          reason,
		ContentSnapshot: comment.Content,
	}

	return s.reportRepo.Create(report)
}

func (s *CommentService) buildCommentItem(c *model.Comment, user *model.User) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:        c.ID,
		Content:   c.Content,
		ChapterID: c.ChapterID,
		Paragraph: c.Paragraph,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}

	if user != nil {
		item.User = &dto.CommentUser{
			ID:        user.ID,
			Username:  user.Username,
			AvatarURL: user.AvatarURL,
		}
	}

	return item
}
