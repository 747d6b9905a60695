package repository

import (
	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
)

type BoardCommentRepository struct {
	db *gorm.DB
}

func NewBoardCommentRepository(db *gorm.DB) *BoardCommentRepository {
	return &BoardCommentRepository{db: db}
}

// Create 创建讨论贴评论
func (r *BoardCommentRepository) Create(comment *model.BoardComment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取讨论贴评论
func (r *BoardCommentRepository) GetByID(id int64) (*model.BoardComment, error) {
	var comment model.BoardComment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete 删除讨论贴评论，回复不级联
func (r *BoardCommentRepository) Delete(id int64) error {
	return r.db.Delete(&model.BoardComment{}, id).Error
}

// ListRootsByBoardID 获取讨论贴的一级评论（信息流，倒序）
func (r *BoardCommentRepository) ListRootsByBoardID(boardID int64, page, pageSize int) ([]*model.BoardComment, int64, error) {
	var comments []*model.BoardComment
	var total int64

	query := r.db.Model(&model.BoardComment{}).
		Preload("User").
		Where("board_id = ? AND parent_id IS NULL", boardID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// GetRepliesByParentIDs 批量获取回复
func (r *BoardCommentRepository) GetRepliesByParentIDs(parentIDs []int64) ([]*model.BoardComment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var replies []*model.BoardComment
	err := r.db.Preload("User").
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}
