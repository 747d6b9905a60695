package repository

import (
	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByIDWithUser 获取评论及用户信息
func (r *CommentRepository) GetByIDWithUser(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("User").Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete 删除评论。不级联：回复保留，成为可独立查询的孤儿回复。
func (r *CommentRepository) Delete(id int64) error {
	return r.db.Delete(&model.Comment{}, id).Error
}

// scopeQuery 按 (book, chapter, paragraph) 三元组精确过滤。
// nil 维度必须匹配 NULL，而不是忽略该维度。
func (r *CommentRepository) scopeQuery(bookID int64, chapterID *int64, paragraph *int) *gorm.DB {
	query := r.db.Model(&model.Comment{}).Where("book_id = ?", bookID)

	if chapterID != nil {
		query = query.Where("chapter_id = ?", *chapterID)
	} else {
		query = query.Where("chapter_id IS NULL")
	}

	if paragraph != nil {
		query = query.Where("paragraph = ?", *paragraph)
	} else {
		query = query.Where("paragraph IS NULL")
	}

	return query
}

// ListRootsByScope 获取作用域内的一级评论。
// 排序随作用域变化：段评是对话，按时间正序；书评/章评是信息流，按时间倒序。
func (r *CommentRepository) ListRootsByScope(bookID int64, chapterID *int64, paragraph *int, page, pageSize int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	query := r.scopeQuery(bookID, chapterID, paragraph).
		Preload("User").
		Where("parent_id IS NULL")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if paragraph != nil {
		order = "created_at ASC"
	}

	offset := (page - 1) * pageSize
	err := query.Order(order).Offset(offset).Limit(pageSize).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// GetRepliesByParentIDs 批量获取回复，回复内部始终按时间正序
func (r *CommentRepository) GetRepliesByParentIDs(parentIDs []int64) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var replies []*model.Comment
	err := r.db.Preload("User").
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

// ListRepliesByParentID 获取单个根评论的回复（根被删后仍可直接查询）
func (r *CommentRepository) ListRepliesByParentID(parentID int64) ([]*model.Comment, error) {
	var replies []*model.Comment
	err := r.db.Preload("User").
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

// CountByBookID 获取作品的评论总数
func (r *CommentRepository) CountByBookID(bookID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}
