package repository

import (
	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create 创建讨论贴
func (r *BoardRepository) Create(board *model.Board) error {
	return r.db.Create(board).Error
}

// GetByID 根据 ID 获取讨论贴
func (r *BoardRepository) GetByID(id int64) (*model.Board, error) {
	var board model.Board
	err := r.db.Where("id = ?", id).First(&board).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// List 获取讨论贴列表
func (r *BoardRepository) List(page, pageSize int) ([]*model.Board, int64, error) {
	var boards []*model.Board
	var total int64

	query := r.db.Model(&model.Board{}).Preload("User")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&boards).Error
	if err != nil {
		return nil, 0, err
	}

	return boards, total, nil
}

// IncrementCommentCount 增减评论数
func (r *BoardRepository) IncrementCommentCount(id int64, delta int) error {
	return r.db.Model(&model.Board{}).Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
}

// IncrementVoteCount 增减点赞数
func (r *BoardRepository) IncrementVoteCount(id int64, delta int) error {
	return r.db.Model(&model.Board{}).Where("id = ?", id).
		UpdateColumn("vote_count", gorm.Expr("vote_count + ?", delta)).Error
}
