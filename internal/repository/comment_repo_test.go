package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkriver/novel_go_server/internal/model"
	"github.com/inkriver/novel_go_server/internal/testutil"
)

func TestCommentRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, user.ID)

	comment := &model.Comment{
		UserID:  user.ID,
		BookID:  book.ID,
		Content: "测试评论",
	}
	require.NoError(t, repo.Create(comment))
	assert.NotZero(t, comment.ID)

	got, err := repo.GetByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "测试评论", got.Content)
	assert.Nil(t, got.ChapterID)
	assert.Nil(t, got.Paragraph)
}

func TestCommentRepository_ScopeNullMatching(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, user.ID)
	chapter := testutil.TestChapter(t, db, book.ID, 1)

	paragraph := 0
	testutil.TestComment(t, db, user.ID, book.ID)
	testutil.TestComment(t, db, user.ID, book.ID, testutil.WithScope(&chapter.ID, nil))
	testutil.TestComment(t, db, user.ID, book.ID, testutil.WithScope(&chapter.ID, &paragraph))

	// nil 维度按 IS NULL 匹配，三个作用域互不包含
	roots, total, err := repo.ListRootsByScope(book.ID, nil, nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Nil(t, roots[0].ChapterID)

	roots, total, err = repo.ListRootsByScope(book.ID, &chapter.ID, nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.NotNil(t, roots[0].ChapterID)
	assert.Nil(t, roots[0].Paragraph)

	_, total, err = repo.ListRootsByScope(book.ID, &chapter.ID, &paragraph, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCommentRepository_OrderingByScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, user.ID)
	chapter := testutil.TestChapter(t, db, book.ID, 1)

	paragraph := 1
	base := time.Now().Add(-time.Hour)

	oldPara := testutil.TestComment(t, db, user.ID, book.ID,
		testutil.WithScope(&chapter.ID, &paragraph), testutil.WithCreatedAt(base))
	newPara := testutil.TestComment(t, db, user.ID, book.ID,
		testutil.WithScope(&chapter.ID, &paragraph), testutil.WithCreatedAt(base.Add(time.Minute)))

	oldBook := testutil.TestComment(t, db, user.ID, book.ID, testutil.WithCreatedAt(base))
	newBook := testutil.TestComment(t, db, user.ID, book.ID, testutil.WithCreatedAt(base.Add(time.Minute)))

	// 段评正序
	roots, _, err := repo.ListRootsByScope(book.ID, &chapter.ID, &paragraph, 1, 10)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, oldPara.ID, roots[0].ID)
	assert.Equal(t, newPara.ID, roots[1].ID)

	// 书评倒序
	roots, _, err = repo.ListRootsByScope(book.ID, nil, nil, 1, 10)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, newBook.ID, roots[0].ID)
	assert.Equal(t, oldBook.ID, roots[1].ID)
}

func TestCommentRepository_RootsExcludeReplies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, user.ID)

	root := testutil.TestComment(t, db, user.ID, book.ID)
	testutil.TestComment(t, db, user.ID, book.ID, testutil.WithParent(root.ID))

	_, total, err := repo.ListRootsByScope(book.ID, nil, nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCommentRepository_GetRepliesByParentIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, user.ID)

	root1 := testutil.TestComment(t, db, user.ID, book.ID)
	root2 := testutil.TestComment(t, db, user.ID, book.ID)

	base := time.Now().Add(-time.Hour)
	r2 := testutil.TestComment(t, db, user.ID, book.ID,
		testutil.WithParent(root1.ID), testutil.WithCreatedAt(base.Add(time.Minute)))
	r1 := testutil.TestComment(t, db, user.ID, book.ID,
		testutil.WithParent(root1.ID), testutil.WithCreatedAt(base))
	testutil.TestComment(t, db, user.ID, book.ID, testutil.WithParent(root2.ID))

	replies, err := repo.GetRepliesByParentIDs([]int64{root1.ID})
	require.NoError(t, err)
	require.Len(t, replies, 2)
	// 回复内部按时间正序
	assert.Equal(t, r1.ID, replies[0].ID)
	assert.Equal(t, r2.ID, replies[1].ID)
}

func TestCommentRepository_GetRepliesByParentIDs_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	replies, err := repo.GetRepliesByParentIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestCommentRepository_DeleteKeepsReplies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, user.ID)

	root := testutil.TestComment(t, db, user.ID, book.ID)
	reply := testutil.TestComment(t, db, user.ID, book.ID, testutil.WithParent(root.ID))

	require.NoError(t, repo.Delete(root.ID))

	_, err := repo.GetByID(root.ID)
	assert.Error(t, err)

	// 孤儿回复仍可直接查询
	replies, err := repo.ListRepliesByParentID(root.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, reply.ID, replies[0].ID)
}

func TestCommentRepository_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	book := testutil.TestBook(t, db, user.ID)

	for i := 0; i < 5; i++ {
		testutil.TestComment(t, db, user.ID, book.ID)
	}

	roots, total, err := repo.ListRootsByScope(book.ID, nil, nil, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, roots, 2)

	roots, _, err = repo.ListRootsByScope(book.ID, nil, nil, 3, 2)
	require.NoError(t, err)
	assert.Len(t, roots, 1)
}
