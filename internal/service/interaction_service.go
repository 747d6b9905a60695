package service

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/repository"
)

var (
	ErrAlreadyVoted     = errors.New("已点赞")
	ErrNotVoted         = errors.New("未点赞")
	ErrAlreadyFollowing = errors.New("已关注")
	ErrNotFollowing     = errors.New("未关注")
	ErrCannotFollowSelf = errors.New("不能关注自己")
	ErrUserNotFound     = errors.New("用户不存在")
)

// InteractionService 点赞与关注。
// 每次成功写入后同步触发通知，通知失败只记录日志。
type InteractionService struct {
	interactionRepo *repository.InteractionRepository
	bookRepo        *repository.BookRepository
	chapterRepo     *repository.ChapterRepository
	boardRepo       *repository.BoardRepository
	userRepo        *repository.UserRepository
	notification    *NotificationService
}

func NewInteractionService(
	interactionRepo *repository.InteractionRepository,
	bookRepo *repository.BookRepository,
	chapterRepo *repository.ChapterRepository,
	boardRepo *repository.BoardRepository,
	userRepo *repository.UserRepository,
	notification *NotificationService,
) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		bookRepo:        bookRepo,
		chapterRepo:     chapterRepo,
		boardRepo:       boardRepo,
		userRepo:        userRepo,
		notification:    notification,
	}
}

// VoteBook 点赞作品 → 通知作品作者
func (s *InteractionService) VoteBook(userID, bookID int64) error {
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	if !book.IsPublished {
		return ErrBookNotPublished
	}

	if err := s.createVote(userID, model.VoteTargetBook, bookID); err != nil {
		return err
	}
	s.bookRepo.IncrementVoteCount(bookID, 1)

	s.emitVote(userID, func(actor *model.User) error {
		return s.notification.EmitBookVote(actor, book)
	})
	return nil
}

// UnvoteBook 取消点赞作品
func (s *InteractionService) UnvoteBook(userID, bookID int64) error {
	if err := s.deleteVote(userID, model.VoteTargetBook, bookID); err != nil {
		return err
	}
	s.bookRepo.IncrementVoteCount(bookID, -1)
	return nil
}

// VoteChapter 点赞章节 → 通知作品作者
func (s *InteractionService) VoteChapter(userID, chapterID int64) error {
	chapter, err := s.chapterRepo.GetByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChapterNotFound
		}
		return err
	}

	book, err := s.bookRepo.GetByID(chapter.BookID)
	if err != nil {
		return err
	}

	if err := s.createVote(userID, model.VoteTargetChapter, chapterID); err != nil {
		return err
	}

	s.emitVote(userID, func(actor *model.User) error {
		return s.notification.EmitChapterVote(actor, book, chapter)
	})
	return nil
}

// UnvoteChapter 取消点赞章节
func (s *InteractionService) UnvoteChapter(userID, chapterID int64) error {
	return s.deleteVote(userID, model.VoteTargetChapter, chapterID)
}

// VoteBoard 点赞讨论贴 → 通知贴主
func (s *InteractionService) VoteBoard(userID, boardID int64) error {
	board, err := s.boardRepo.GetByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return err
	}

	if err := s.createVote(userID, model.VoteTargetBoard, boardID); err != nil {
		return err
	}
	s.boardRepo.IncrementVoteCount(boardID, 1)

	s.emitVote(userID, func(actor *model.User) error {
		return s.notification.EmitBoardVote(actor, board)
	})
	return nil
}

// UnvoteBoard 取消点赞讨论贴
func (s *InteractionService) UnvoteBoard(userID, boardID int64) error {
	if err := s.deleteVote(userID, model.VoteTargetBoard, boardID); err != nil {
		return err
	}
	s.boardRepo.IncrementVoteCount(boardID, -1)
	return nil
}

// FollowAuthor 关注作者 → 通知作者
func (s *InteractionService) FollowAuthor(userID, authorID int64) error {
	if userID == authorID {
		return ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.createFollow(userID, model.FollowTargetAuthor, authorID); err != nil {
		return err
	}

	s.emitVote(userID, func(actor *model.User) error {
		return s.notification.EmitFollow(actor, authorID)
	})
	return nil
}

// UnfollowAuthor 取消关注作者
func (s *InteractionService) UnfollowAuthor(userID, authorID int64) error {
	return s.deleteFollow(userID, model.FollowTargetAuthor, authorID)
}

// FollowBook 关注作品 → 通知作品作者
func (s *InteractionService) FollowBook(userID, bookID int64) error {
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if err := s.createFollow(userID, model.FollowTargetBook, bookID); err != nil {
		return err
	}

	s.emitVote(userID, func(actor *model.User) error {
		return s.notification.EmitFollow(actor, book.AuthorID)
	})
	return nil
}

// UnfollowBook 取消关注作品
func (s *InteractionService) UnfollowBook(userID, bookID int64) error {
	return s.deleteFollow(userID, model.FollowTargetBook, bookID)
}

func (s *InteractionService) createVote(userID int64, targetType string, targetID int64) error {
	exists, err := s.interactionRepo.VoteExists(userID, targetType, targetID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyVoted
	}

	return s.interactionRepo.CreateVote(&model.Vote{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
	})
}

func (s *InteractionService) deleteVote(userID int64, targetType string, targetID int64) error {
	exists, err := s.interactionRepo.VoteExists(userID, targetType, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotVoted
	}

	return s.interactionRepo.DeleteVote(userID, targetType, targetID)
}

func (s *InteractionService) createFollow(followerID int64, targetType string, targetID int64) error {
	exists, err := s.interactionRepo.FollowExists(followerID, targetType, targetID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}

	return s.interactionRepo.CreateFollow(&model.Follow{
		FollowerID: followerID,
		TargetType: targetType,
		TargetID:   targetID,
	})
}

func (s *InteractionService) deleteFollow(followerID int64, targetType string, targetID int64) error {
	exists, err := s.interactionRepo.FollowExists(followerID, targetType, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFollowing
	}

	return s.interactionRepo.DeleteFollow(followerID, targetType, targetID)
}

// emitVote 主写入已提交，通知失败只记录日志
func (s *InteractionService) emitVote(actorID int64, emit func(*model.User) error) {
	if s.notification == nil {
		return
	}

	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		log.Printf("Failed to load actor %d for notification: %v", actorID, err)
		return
	}

	if err := emit(actor); err != nil {
		log.Printf("Failed to emit notification for actor %d: %v", actorID, err)
	}
}
