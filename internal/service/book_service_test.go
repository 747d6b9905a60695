package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/model/dto"
	"github.com/inkriver/novel_go_server/internal/pkg/queue"
	"github.com/inkriver/novel_go_server/internal/repository"
	"github.com/inkriver/novel_go_server/internal/testutil"
)

func setupBookService(t *testing.T, emailQueue *queue.Queue) (*BookService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	bookRepo := repository.NewBookRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)

	notification := NewNotificationService(notificationRepo, interactionRepo, nil)
	service := NewBookService(bookRepo, chapterRepo, userRepo, notification, emailQueue)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestBookService_CreateChapter_SeqIncrements(t *testing.T) {
	service, db, cleanup := setupBookService(t, nil)
	defer cleanup()

	author := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)

	first, err := service.CreateChapter(author.ID, book.ID, &dto.CreateChapterRequest{
		Title:   "第一章",
		Content: "正文",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Seq)

	second, err := service.CreateChapter(author.ID, book.ID, &dto.CreateChapterRequest{
		Title:   "第二章",
		Content: "正文",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Seq)
}

func TestBookService_CreateChapter_NotAuthor(t *testing.T) {
	service, db, cleanup := setupBookService(t, nil)
	defer cleanup()

	author := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)

	_, err := service.CreateChapter(other.ID, book.ID, &dto.CreateChapterRequest{
		Title:   "第一章",
		Content: "正文",
	})
	assert.Equal(t, ErrBookPermission, err)
}

func TestBookService_PublishChapter_FanOutOnce(t *testing.T) {
	service, db, cleanup := setupBookService(t, nil)
	defer cleanup()

	author := testutil.TestUser(t, db)
	fan := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)
	chapter := testutil.TestChapter(t, db, book.ID, 1, testutil.WithDraft())
	testutil.TestFollow(t, db, fan.ID, model.FollowTargetBook, book.ID)

	item, err := service.PublishChapter(author.ID, chapter.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, item.PublishedAt)

	var notifications []model.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, fan.ID, notifications[0].RecipientID)
	assert.Equal(t, model.NotificationTypeNewChapter, notifications[0].Type)

	// 重复发布直接报错，不二次多播
	_, err = service.PublishChapter(author.ID, chapter.ID)
	assert.Equal(t, ErrChapterPublished, err)

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBookService_PublishChapter_NotAuthor(t *testing.T) {
	service, db, cleanup := setupBookService(t, nil)
	defer cleanup()

	author := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)
	chapter := testutil.TestChapter(t, db, book.ID, 1, testutil.WithDraft())

	_, err := service.PublishChapter(other.ID, chapter.ID)
	assert.Equal(t, ErrBookPermission, err)
}

func TestBookService_PublishChapter_EnqueuesEmailJob(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	emailQueue := queue.NewQueue(rdb, "test_email_queue")
	service, db, cleanup := setupBookService(t, emailQueue)
	defer cleanup()

	author := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)
	chapter := testutil.TestChapter(t, db, book.ID, 1, testutil.WithDraft())

	_, err := service.PublishChapter(author.ID, chapter.ID)
	require.NoError(t, err)

	length, err := emailQueue.Length(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)

	job, err := emailQueue.Pop(context.Background(), time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, book.ID, job.BookID)
	assert.Equal(t, chapter.ID, job.ChapterID)
}

func TestBookService_ListChapters_DraftsOnlyForAuthor(t *testing.T) {
	service, db, cleanup := setupBookService(t, nil)
	defer cleanup()

	author := testutil.TestUser(t, db)
	reader := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)
	testutil.TestChapter(t, db, book.ID, 1)
	testutil.TestChapter(t, db, book.ID, 2, testutil.WithDraft())

	// 路人只看到已发布章节
	items, err := service.ListChapters(book.ID, &reader.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// 匿名同样
	items, err = service.ListChapters(book.ID, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// 作者看到全部
	items, err = service.ListChapters(book.ID, &author.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestBookService_GetChapter_Paragraphs(t *testing.T) {
	service, db, cleanup := setupBookService(t, nil)
	defer cleanup()

	author := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)
	content := "开头。\n\n  \n\n中间。\n\n结尾。"
	chapter := testutil.TestChapter(t, db, book.ID, 1, testutil.WithContent(content))

	detail, err := service.GetChapter(chapter.ID, nil)
	require.NoError(t, err)
	// 空白段不计入，锚点序号连续
	require.Len(t, detail.Paragraphs, 3)
	assert.Equal(t, "开头。", detail.Paragraphs[0])
	assert.Equal(t, "中间。", detail.Paragraphs[1])
	assert.Equal(t, "结尾。", detail.Paragraphs[2])
}

func TestBookService_GetChapter_DraftGated(t *testing.T) {
	service, db, cleanup := setupBookService(t, nil)
	defer cleanup()

	author := testutil.TestUser(t, db)
	reader := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)
	draft := testutil.TestChapter(t, db, book.ID, 1, testutil.WithDraft())

	_, err := service.GetChapter(draft.ID, nil)
	assert.Equal(t, ErrChapterNotPublished, err)

	_, err = service.GetChapter(draft.ID, &reader.ID)
	assert.Equal(t, ErrChapterNotPublished, err)

	detail, err := service.GetChapter(draft.ID, &author.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, detail.ID)
}

func TestBookService_ListBooks_OnlyPublished(t *testing.T) {
	service, db, cleanup := setupBookService(t, nil)
	defer cleanup()

	author := testutil.TestUser(t, db)
	for i := 0; i < 3; i++ {
		testutil.TestBook(t, db, author.ID)
	}
	testutil.TestBook(t, db, author.ID, testutil.WithUnpublished())

	items, total, err := service.ListBooks(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 3)
}
