package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/model/dto"
	"github.com/inkriver/novel_go_server/internal/repository"
	"github.com/inkriver/novel_go_server/internal/testutil"
)

func setupBoardService(t *testing.T) (*BoardService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	boardRepo := repository.NewBoardRepository(db)
	boardCommentRepo := repository.NewBoardCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)

	notification := NewNotificationService(notificationRepo, interactionRepo, nil)
	service := NewBoardService(boardRepo, boardCommentRepo, userRepo, reportRepo, notification)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestBoardService_CreateAndGet(t *testing.T) {
	service, db, cleanup := setupBoardService(t)
	defer cleanup()

	user := testutil.TestUser(t, db, testutil.WithUsername("楼主"))

	item, err := service.CreateBoard(user.ID, &dto.CreateBoardRequest{
		Title:   "新书讨论",
		Content: "大家怎么看",
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)

	got, err := service.GetBoard(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "新书讨论", got.Title)
	require.NotNil(t, got.User)
	assert.Equal(t, "楼主", got.User.Username)
}

func TestBoardService_GetBoard_NotFound(t *testing.T) {
	service, _, cleanup := setupBoardService(t)
	defer cleanup()

	_, err := service.GetBoard(99999)
	assert.Equal(t, ErrBoardNotFound, err)
}

func TestBoardService_CreateComment_NotifiesOwner(t *testing.T) {
	service, db, cleanup := setupBoardService(t)
	defer cleanup()

	owner := testutil.TestUser(t, db)
	commenter := testutil.TestUser(t, db)
	board := testutil.TestBoard(t, db, owner.ID)

	item, err := service.CreateComment(commenter.ID, board.ID, &dto.CreateBoardCommentRequest{
		Content: "沙发",
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)

	var notifications []model.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, owner.ID, notifications[0].RecipientID)
	assert.Equal(t, model.NotificationTypeBoardComment, notifications[0].Type)
	require.NotNil(t, notifications[0].BoardID)
	assert.Equal(t, board.ID, *notifications[0].BoardID)
}

func TestBoardService_CreateComment_ReplyRedirectsToRoot(t *testing.T) {
	service, db, cleanup := setupBoardService(t)
	defer cleanup()

	owner := testutil.TestUser(t, db)
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	board := testutil.TestBoard(t, db, owner.ID)

	root, err := service.CreateComment(u1.ID, board.ID, &dto.CreateBoardCommentRequest{Content: "一楼"})
	require.NoError(t, err)

	reply, err := service.CreateComment(u2.ID, board.ID, &dto.CreateBoardCommentRequest{
		Content:  "回一楼",
		ParentID: &root.ID,
	})
	require.NoError(t, err)

	// 对回复再回复，挂到根评论下
	deep, err := service.CreateComment(u1.ID, board.ID, &dto.CreateBoardCommentRequest{
		Content:  "再回",
		ParentID: &reply.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, deep.ParentID)
	assert.Equal(t, root.ID, *deep.ParentID)
}

func TestBoardService_CreateComment_ReplyNotifiesParentAuthor(t *testing.T) {
	service, db, cleanup := setupBoardService(t)
	defer cleanup()

	owner := testutil.TestUser(t, db)
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	board := testutil.TestBoard(t, db, owner.ID)

	root, err := service.CreateComment(u1.ID, board.ID, &dto.CreateBoardCommentRequest{Content: "一楼"})
	require.NoError(t, err)

	// 清掉一楼产生的通知，只看回复的
	require.NoError(t, db.Where("1 = 1").Delete(&model.Notification{}).Error)

	_, err = service.CreateComment(u2.ID, board.ID, &dto.CreateBoardCommentRequest{
		Content:  "回一楼",
		ParentID: &root.ID,
	})
	require.NoError(t, err)

	// 回复通知发给被回复者 u1，不是贴主
	var notifications []model.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, u1.ID, notifications[0].RecipientID)
	assert.Equal(t, model.NotificationTypeReply, notifications[0].Type)
}

func TestBoardService_CreateComment_ParentNotInBoard(t *testing.T) {
	service, db, cleanup := setupBoardService(t)
	defer cleanup()

	owner := testutil.TestUser(t, db)
	board1 := testutil.TestBoard(t, db, owner.ID)
	board2 := testutil.TestBoard(t, db, owner.ID)

	root, err := service.CreateComment(owner.ID, board1.ID, &dto.CreateBoardCommentRequest{Content: "一楼"})
	require.NoError(t, err)

	_, err = service.CreateComment(owner.ID, board2.ID, &dto.CreateBoardCommentRequest{
		Content:  "串贴回复",
		ParentID: &root.ID,
	})
	assert.Equal(t, ErrBoardParentNotInBoard, err)
}

func TestBoardService_ListComments_WithReplies(t *testing.T) {
	service, db, cleanup := setupBoardService(t)
	defer cleanup()

	owner := testutil.TestUser(t, db)
	board := testutil.TestBoard(t, db, owner.ID)

	root, err := service.CreateComment(owner.ID, board.ID, &dto.CreateBoardCommentRequest{Content: "一楼"})
	require.NoError(t, err)
	_, err = service.CreateComment(owner.ID, board.ID, &dto.CreateBoardCommentRequest{
		Content:  "回复",
		ParentID: &root.ID,
	})
	require.NoError(t, err)

	items, total, err := service.ListComments(board.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Len(t, items[0].Replies, 1)
}

func TestBoardService_DeleteComment_Permissions(t *testing.T) {
	service, db, cleanup := setupBoardService(t)
	defer cleanup()

	owner := testutil.TestUser(t, db)
	commenter := testutil.TestUser(t, db)
	stranger := testutil.TestUser(t, db)
	board := testutil.TestBoard(t, db, owner.ID)

	c1, err := service.CreateComment(commenter.ID, board.ID, &dto.CreateBoardCommentRequest{Content: "一"})
	require.NoError(t, err)
	c2, err := service.CreateComment(commenter.ID, board.ID, &dto.CreateBoardCommentRequest{Content: "二"})
	require.NoError(t, err)

	// 路人无权
	assert.Equal(t, ErrBoardCommentPermission, service.DeleteComment(stranger.ID, c1.ID))

	// 作者本人和贴主都可以删
	require.NoError(t, service.DeleteComment(commenter.ID, c1.ID))
	require.NoError(t, service.DeleteComment(owner.ID, c2.ID))
}

func TestBoardService_ReportComment_Snapshot(t *testing.T) {
	service, db, cleanup := setupBoardService(t)
	defer cleanup()

	owner := testutil.TestUser(t, db)
	reporter := testutil.TestUser(t, db)
	board := testutil.TestBoard(t, db, owner.ID)

	comment, err := service.CreateComment(owner.ID, board.ID, &dto.CreateBoardCommentRequest{Content: "引战内容"})
	require.NoError(t, err)

	require.NoError(t, service.ReportComment(reporter.ID, comment.ID, "引战"))

	var reports []model.Report
	require.NoError(t, db.Find(&reports).Error)
	require.Len(t, reports, 1)
	assert.Equal(t, model.ReportTargetBoardComment, reports[0].TargetType)
	assert.Equal(t, "引战内容", reports[0].ContentSnapshot)
}
