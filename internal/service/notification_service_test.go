package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/repository"
	"github.com/inkriver/novel_go_server/internal/testutil"
)

func setupNotificationService(t *testing.T) (*NotificationService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	notificationRepo := repository.NewNotificationRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)

	service := NewNotificationService(notificationRepo, interactionRepo, nil)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestNotificationService_EmitBookVote(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	actor := testutil.TestUser(t, db, testutil.WithUsername("voter"))
	book := testutil.TestBook(t, db, author.ID)

	require.NoError(t, service.EmitBookVote(actor, book))

	var notifications []model.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, author.ID, notifications[0].RecipientID)
	assert.Equal(t, "voter", notifications[0].ActorName)
	assert.Equal(t, model.NotificationTypeVote, notifications[0].Type)
	assert.False(t, notifications[0].IsRead)
}

func TestNotificationService_SelfActionSuppressed(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)

	// 作者给自己的作品点赞，不产生通知
	require.NoError(t, service.EmitBookVote(author, book))

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestNotificationService_EmitNewChapter_FanOut(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)
	chapter := testutil.TestChapter(t, db, book.ID, 1)

	f1 := testutil.TestUser(t, db)
	f2 := testutil.TestUser(t, db)
	f3 := testutil.TestUser(t, db)

	// f1 追更作品，f2 关注作者，f3 两者都有（去重后只收一条）
	testutil.TestFollow(t, db, f1.ID, model.FollowTargetBook, book.ID)
	testutil.TestFollow(t, db, f2.ID, model.FollowTargetAuthor, author.ID)
	testutil.TestFollow(t, db, f3.ID, model.FollowTargetBook, book.ID)
	testutil.TestFollow(t, db, f3.ID, model.FollowTargetAuthor, author.ID)
	// 作者自己也关注自己的作品，不应收到
	testutil.TestFollow(t, db, author.ID, model.FollowTargetBook, book.ID)

	require.NoError(t, service.EmitNewChapter(author, book, chapter))

	var notifications []model.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 3)

	recipients := make(map[int64]int)
	for _, n := range notifications {
		assert.Equal(t, model.NotificationTypeNewChapter, n.Type)
		require.NotNil(t, n.ChapterID)
		assert.Equal(t, chapter.ID, *n.ChapterID)
		recipients[n.RecipientID]++
	}
	assert.Equal(t, 1, recipients[f1.ID])
	assert.Equal(t, 1, recipients[f2.ID])
	assert.Equal(t, 1, recipients[f3.ID])
	assert.Zero(t, recipients[author.ID])
}

func TestNotificationService_EmitNewChapter_NoFollowers(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	author := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, author.ID)
	chapter := testutil.TestChapter(t, db, book.ID, 1)

	require.NoError(t, service.EmitNewChapter(author, book, chapter))

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	recipient := testutil.TestUser(t, db)
	actor := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, recipient.ID)

	require.NoError(t, service.EmitBookVote(actor, book))
	require.NoError(t, service.EmitFollow(actor, recipient.ID))

	count, err := service.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestNotificationService_MarkAllRead_Idempotent(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	recipient := testutil.TestUser(t, db)
	actor := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, recipient.ID)

	require.NoError(t, service.EmitBookVote(actor, book))
	require.NoError(t, service.EmitFollow(actor, recipient.ID))

	affected, err := service.MarkAllRead(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	count, err := service.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// 第二次调用没有可更新的行
	affected, err = service.MarkAllRead(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestNotificationService_MarkAllRead_OnlyOwnNotifications(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	actor := testutil.TestUser(t, db)
	book1 := testutil.TestBook(t, db, u1.ID)
	book2 := testutil.TestBook(t, db, u2.ID)

	require.NoError(t, service.EmitBookVote(actor, book1))
	require.NoError(t, service.EmitBookVote(actor, book2))

	_, err := service.MarkAllRead(u1.ID)
	require.NoError(t, err)

	count, err := service.UnreadCount(u2.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationService_List_NewestFirst(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	recipient := testutil.TestUser(t, db)
	actor := testutil.TestUser(t, db, testutil.WithUsername("行动者"))
	book := testutil.TestBook(t, db, recipient.ID)

	require.NoError(t, service.EmitBookVote(actor, book))
	require.NoError(t, service.EmitFollow(actor, recipient.ID))

	items, total, err := service.List(recipient.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	// ID 递增，倒序列表里新通知在前
	assert.Greater(t, items[0].ID, items[1].ID)

	// 每条都带文案和跳转目标
	for _, item := range items {
		assert.NotEmpty(t, item.Text)
		assert.NotNil(t, item.Link)
		assert.Equal(t, "行动者", item.ActorName)
	}
}

func TestNotificationService_EmitReply_RecipientIsParentAuthor(t *testing.T) {
	service, db, cleanup := setupNotificationService(t)
	defer cleanup()

	rootAuthor := testutil.TestUser(t, db)
	replier := testutil.TestUser(t, db)
	bookAuthor := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, bookAuthor.ID)

	parent := testutil.TestComment(t, db, rootAuthor.ID, book.ID)
	reply := testutil.TestComment(t, db, replier.ID, book.ID, testutil.WithParent(parent.ID))

	require.NoError(t, service.EmitReply(replier, parent, reply))

	var notifications []model.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, rootAuthor.ID, notifications[0].RecipientID)
	require.NotNil(t, notifications[0].CommentID)
	assert.Equal(t, reply.ID, *notifications[0].CommentID)
}
