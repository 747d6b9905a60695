package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/inkriver/novel_go_server/config"
	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/pkg/email"
	"github.com/inkriver/novel_go_server/internal/pkg/queue"
	"github.com/inkriver/novel_go_server/internal/repository"
)

// Processor 处理章节更新的邮件推送任务。
// 收件人和站内通知的扇出集合一致：追更读者加作者粉丝，去重，排除作者本人。
type Processor struct {
	bookRepo        *repository.BookRepository
	chapterRepo     *repository.ChapterRepository
	userRepo        *repository.UserRepository
	interactionRepo *repository.InteractionRepository
	emailService    *email.Service
	cfg             *config.Config
}

func NewProcessor(
	bookRepo *repository.BookRepository,
	chapterRepo *repository.ChapterRepository,
	userRepo *repository.UserRepository,
	interactionRepo *repository.InteractionRepository,
	emailService *email.Service,
	cfg *config.Config,
) *Processor {
	return &Processor{
		bookRepo:        bookRepo,
		chapterRepo:     chapterRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
		emailService:    emailService,
		cfg:             cfg,
	}
}

// Process 处理一条邮件任务。单个收件人发送失败只记录日志，继续发其余的。
func (p *Processor) Process(ctx context.Context, job *queue.EmailJob) error {
	book, err := p.bookRepo.GetByID(job.BookID)
	if err != nil {
		return fmt.Errorf("load book %d: %w", job.BookID, err)
	}

	chapter, err := p.chapterRepo.GetByID(job.ChapterID)
	if err != nil {
		return fmt.Errorf("load chapter %d: %w", job.ChapterID, err)
	}

	recipientIDs, err := p.collectRecipients(book)
	if err != nil {
		return err
	}
	if len(recipientIDs) == 0 {
		return nil
	}

	users, err := p.userRepo.GetByIDs(recipientIDs)
	if err != nil {
		return fmt.Errorf("load recipients: %w", err)
	}

	link := fmt.Sprintf("%s/chapters/%d", p.cfg.Site.BaseURL, chapter.ID)

	sent := 0
	for _, u := range users {
		if u.Email == nil || *u.Email == "" {
			continue
		}
		if err := p.emailService.SendNewChapter(*u.Email, u.Username, book.Title, chapter.Title, link); err != nil {
			log.Printf("Failed to send chapter mail to user %d: %v", u.ID, err)
			continue
		}
		sent++
	}

	log.Printf("Chapter %d mail: %d/%d sent", chapter.ID, sent, len(users))
	return nil
}

func (p *Processor) collectRecipients(book *model.Book) ([]int64, error) {
	bookFollowers, err := p.interactionRepo.ListFollowerIDs(model.FollowTargetBook, book.ID)
	if err != nil {
		return nil, fmt.Errorf("list book followers: %w", err)
	}

	authorFollowers, err := p.interactionRepo.ListFollowerIDs(model.FollowTargetAuthor, book.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("list author followers: %w", err)
	}

	seen := make(map[int64]struct{})
	ids := make([]int64, 0, len(bookFollowers)+len(authorFollowers))
	for _, id := range append(bookFollowers, authorFollowers...) {
		if id == book.AuthorID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
