package service

import (
	"context"
	"log"
	"time"

	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/model/dto"
	"github.com/inkriver/novel_go_server/internal/pkg/pubsub"
	"github.com/inkriver/novel_go_server/internal/repository"
)

// NotificationService 负责通知的产生、查询和已读状态。
// 所有 Emit 方法在触发写入提交之后同步调用。
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	interactionRepo  *repository.InteractionRepository
	publisher        *pubsub.Publisher // 可为 nil（测试环境）
}

func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	interactionRepo *repository.InteractionRepository,
	publisher *pubsub.Publisher,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		interactionRepo:  interactionRepo,
		publisher:        publisher,
	}
}

// emit 写入一条通知并发布实时事件。
// 收件人等于动作者时完全抑制，不落库。
func (s *NotificationService) emit(n *model.Notification) error {
	if n.RecipientID == n.ActorID {
		return nil
	}

	if err := s.notificationRepo.Create(n); err != nil {
		return err
	}

	s.publish(n)
	return nil
}

// publish 发布实时事件，失败只记录日志，不影响已落库的通知
func (s *NotificationService) publish(n *model.Notification) {
	if s.publisher == nil {
		return
	}

	event := &pubsub.NotificationEvent{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		ActorName:   n.ActorName,
		Kind:        n.Type,
		BookID:      n.BookID,
		ChapterID:   n.ChapterID,
		Paragraph:   n.Paragraph,
		CommentID:   n.CommentID,
		BoardID:     n.BoardID,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.publisher.PublishNotification(ctx, event); err != nil {
		log.Printf("Failed to publish notification %d: %v", n.ID, err)
	}
}

// EmitBookVote 作品被点赞 → 通知作品作者
func (s *NotificationService) EmitBookVote(actor *model.User, book *model.Book) error {
	return s.emit(&model.Notification{
		RecipientID: book.AuthorID,
		ActorID:     actor.ID,
		ActorName:   actor.Username,
		Type:        model.NotificationTypeVote,
		BookID:      &book.ID,
	})
}

// EmitChapterVote 章节被点赞 → 通知作品作者
func (s *NotificationService) EmitChapterVote(actor *model.User, book *model.Book, chapter *model.Chapter) error {
	return s.emit(&model.Notification{
		RecipientID: book.AuthorID,
		ActorID:     actor.ID,
		ActorName:   actor.Username,
		Type:        model.NotificationTypeChapterVote,
		BookID:      &book.ID,
		ChapterID:   &chapter.ID,
	})
}

// EmitFollow 被关注 → 通知被关注者（关注作品时通知作品作者）
func (s *NotificationService) EmitFollow(actor *model.User, recipientID int64) error {
	return s.emit(&model.Notification{
		RecipientID: recipientID,
		ActorID:     actor.ID,
		ActorName:   actor.Username,
		Type:        model.NotificationTypeFollow,
	})
}

// EmitComment 作品/章节收到一级评论 → 通知作品作者
func (s *NotificationService) EmitComment(actor *model.User, book *model.Book, comment *model.Comment) error {
	return s.emit(&model.Notification{
		RecipientID: book.AuthorID,
		ActorID:     actor.ID,
		ActorName:   actor.Username,
		Type:        model.NotificationTypeComment,
		BookID:      &comment.BookID,
		ChapterID:   comment.ChapterID,
		Paragraph:   comment.Paragraph,
		CommentID:   &comment.ID,
	})
}

// EmitReply 评论被回复 → 通知被回复评论的作者，而不是楼主或作品作者。
// 目标定位字段继承回复本身的作用域（含锚点），高亮的是新回复。
func (s *NotificationService) EmitReply(actor *model.User, parent *model.Comment, reply *model.Comment) error {
	return s.emit(&model.Notification{
		RecipientID: parent.UserID,
		ActorID:     actor.ID,
		ActorName:   actor.Username,
		Type:        model.NotificationTypeReply,
		BookID:      &reply.BookID,
		ChapterID:   reply.ChapterID,
		Paragraph:   reply.Paragraph,
		CommentID:   &reply.ID,
	})
}

// EmitBoardVote 讨论贴被点赞 → 通知贴主
func (s *NotificationService) EmitBoardVote(actor *model.User, board *model.Board) error {
	return s.emit(&model.Notification{
		RecipientID: board.UserID,
		ActorID:     actor.ID,
		ActorName:   actor.Username,
		Type:        model.NotificationTypeBoardVote,
		BoardID:     &board.ID,
	})
}

// EmitBoardComment 讨论贴收到一级评论 → 通知贴主
func (s *NotificationService) EmitBoardComment(actor *model.User, board *model.Board, comment *model.BoardComment) error {
	return s.emit(&model.Notification{
		RecipientID: board.UserID,
		ActorID:     actor.ID,
		ActorName:   actor.Username,
		Type:        model.NotificationTypeBoardComment,
		BoardID:     &board.ID,
		CommentID:   &comment.ID,
	})
}

// EmitBoardReply 讨论贴评论被回复 → 通知父评论作者
func (s *NotificationService) EmitBoardReply(actor *model.User, parent *model.BoardComment, reply *model.BoardComment) error {
	return s.emit(&model.Notification{
		RecipientID: parent.UserID,
		ActorID:     actor.ID,
		ActorName:   actor.Username,
		Type:        model.NotificationTypeReply,
		BoardID:     &reply.BoardID,
		CommentID:   &reply.ID,
	})
}

// EmitNewChapter 新章节发布 → 多播给作品和作者的所有关注者，每人一行。
// 发布章节的作者本人被排除。
func (s *NotificationService) EmitNewChapter(author *model.User, book *model.Book, chapter *model.Chapter) error {
	bookFollowers, err := s.interactionRepo.ListFollowerIDs(model.FollowTargetBook, book.ID)
	if err != nil {
		return err
	}
	authorFollowers, err := s.interactionRepo.ListFollowerIDs(model.FollowTargetAuthor, author.ID)
	if err != nil {
		return err
	}

	seen := make(map[int64]struct{})
	var notifications []*model.Notification
	for _, id := range append(bookFollowers, authorFollowers...) {
		if id == author.ID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		notifications = append(notifications, &model.Notification{
			RecipientID: id,
			ActorID:     author.ID,
			ActorName:   author.Username,
			Type:        model.NotificationTypeNewChapter,
			BookID:      &book.ID,
			ChapterID:   &chapter.ID,
		})
	}

	if len(notifications) == 0 {
		return nil
	}

	if err := s.notificationRepo.CreateBatch(notifications); err != nil {
		return err
	}

	for _, n := range notifications {
		s.publish(n)
	}
	return nil
}

// List 获取通知列表，每条附带展示文案和跳转目标
func (s *NotificationService) List(recipientID int64, page, pageSize int) ([]*dto.NotificationItem, int64, error) {
	notifications, total, err := s.notificationRepo.ListByRecipient(recipientID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.NotificationItem, len(notifications))
	for i, n := range notifications {
		text, link := ResolveNotification(n)
		items[i] = &dto.NotificationItem{
			ID:        n.ID,
			Type:      n.Type,
			ActorName: n.ActorName,
			Text:      text,
			Link:      link,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}

	return items, total, nil
}

// UnreadCount 未读数，每次全量重算
func (s *NotificationService) UnreadCount(recipientID int64) (int64, error) {
	return s.notificationRepo.UnreadCount(recipientID)
}

// MarkAllRead 打开通知列表时批量置为已读
func (s *NotificationService) MarkAllRead(recipientID int64) (int64, error) {
	return s.notificationRepo.MarkAllRead(recipientID)
}
