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
	ErrBoardNotFound           = errors.New("讨论贴不存在")
	ErrBoardCommentNotFound    = errors.New("讨论贴评论不存在")
	ErrBoardCommentPermission  = errors.New("无权操作此评论")
	ErrBoardParentNotFound     = errors.New("父评论不存在")
	ErrBoardParentNotInBoard   = errors.New("父评论不属于该讨论贴")
)

type BoardService struct {
	boardRepo        *repository.BoardRepository
	boardCommentRepo *repository.BoardCommentRepository
	userRepo         *repository.UserRepository
	reportRepo       *repository.ReportRepository
	notification     *NotificationService
}

func NewBoardService(
	boardRepo *repository.BoardRepository,
	boardCommentRepo *repository.BoardCommentRepository,
	userRepo *repository.UserRepository,
	reportRepo *repository.ReportRepository,
	notification *NotificationService,
) *BoardService {
	return &BoardService{
		boardRepo:        boardRepo,
		boardCommentRepo: boardCommentRepo,
		userRepo:         userRepo,
		reportRepo:       reportRepo,
		notification:     notification,
	}
}

// CreateBoard 创建讨论贴
func (s *BoardService) CreateBoard(userID int64, req *dto.CreateBoardRequest) (*dto.BoardItem, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	board := &model.Board{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
	}

	if err := s.boardRepo.Create(board); err != nil {
		return nil, err
	}

	return s.buildBoardItem(board, user), nil
}

// GetBoard 获取讨论贴详情
func (s *BoardService) GetBoard(boardID int64) (*dto.BoardItem, error) {
	board, err := s.boardRepo.GetByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}

	user, _ := s.userRepo.GetByID(board.UserID)
	return s.buildBoardItem(board, user), nil
}

// ListBoards 获取讨论贴列表
func (s *BoardService) ListBoards(page, pageSize int) ([]*dto.BoardItem, int64, error) {
	boards, total, err := s.boardRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.BoardItem, len(boards))
	for i, b := range boards {
		items[i] = s.buildBoardItem(b, b.User)
	}
	return items, total, nil
}

// CreateComment 创建讨论贴评论。
// 与作品评论一样只支持一级回复：回复的回复重定向到根评论。
func (s *BoardService) CreateComment(userID, boardID int64, req *dto.CreateBoardCommentRequest) (*dto.CommentItem, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}

	board, err := s.boardRepo.GetByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}

	var directParent *model.BoardComment
	parentID := req.ParentID
	if parentID != nil {
		parent, err := s.boardCommentRepo.GetByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBoardParentNotFound
			}
			return nil, err
		}
		if parent.BoardID != boardID {
			return nil, ErrBoardParentNotInBoard
		}
		directParent = parent

		// 只支持一级回复
		if parent.ParentID != nil {
			parentID = parent.ParentID
		} else {
			parentID = &parent.ID
		}
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	comment := &model.BoardComment{
		BoardID:  boardID,
		UserID:   userID,
		ParentID: parentID,
		Content:  req.Content,
	}

	if err := s.boardCommentRepo.Create(comment); err != nil {
		return nil, err
	}

	s.boardRepo.IncrementCommentCount(boardID, 1)

	// 评论已落库，通知失败只记录日志
	if s.notification != nil {
		var emitErr error
		if directParent != nil {
			emitErr = s.notification.EmitBoardReply(user, directParent, comment)
		} else {
			emitErr = s.notification.EmitBoardComment(user, board, comment)
		}
		if emitErr != nil {
			log.Printf("Failed to emit notification for board comment %d: %v", comment.ID, emitErr)
		}
	}

	return s.buildCommentItem(comment, user), nil
}

// ListComments 获取讨论贴评论列表（信息流，倒序），附带回复
func (s *BoardService) ListComments(boardID int64, page, pageSize int) ([]*dto.CommentItem, int64, error) {
	if _, err := s.boardRepo.GetByID(boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrBoardNotFound
		}
		return nil, 0, err
	}

	comments, total, err := s.boardCommentRepo.ListRootsByBoardID(boardID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	if len(comments) == 0 {
		return []*dto.CommentItem{}, total, nil
	}

	parentIDs := make([]int64, len(comments))
	for i, c := range comments {
		parentIDs[i] = c.ID
	}

	replies, _ := s.boardCommentRepo.GetRepliesByParentIDs(parentIDs)

	repliesMap := make(map[int64][]*model.BoardComment)
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

// DeleteComment 删除讨论贴评论。允许：评论作者、贴主、管理员。不级联。
func (s *BoardService) DeleteComment(userID, commentID int64) error {
	comment, err := s.boardCommentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardCommentNotFound
		}
		return err
	}

	if comment.UserID != userID {
		board, berr := s.boardRepo.GetByID(comment.BoardID)
		owner := berr == nil && board.UserID == userID

		user, uerr := s.userRepo.GetByID(userID)
		moderator := uerr == nil && user.IsModerator()

		if !owner && !moderator {
			return ErrBoardCommentPermission
		}
	}

	if err := s.boardCommentRepo.Delete(commentID); err != nil {
		return err
	}

	s.boardRepo.IncrementCommentCount(comment.BoardID, -1)
	return nil
}

// ReportComment 举报讨论贴评论，同样抓取内容快照
func (s *BoardService) ReportComment(userID, commentID int64, reason string) error {
	comment, err := s.boardCommentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardCommentNotFound
		}
		return err
	}

	return s.reportRepo.Create(&model.Report{
		ReporterID:      userID,
		TargetType:      model.ReportTargetBoardComment,
		TargetID:        comment.ID,
		Reason:          reason,
		ContentSnapshot: comment.Content,
	})
}

func (s *BoardService) buildBoardItem(b *model.Board, user *model.User) *dto.BoardItem {
	item := &dto.BoardItem{
		ID:           b.ID,
		Title:        b.Title,
		Content:      b.Content,
		VoteCount:    b.VoteCount,
		CommentCount: b.CommentCount,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
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

func (s *BoardService) buildCommentItem(c *model.BoardComment, user *model.User) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:        c.ID,
		Content:   c.Content,
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
