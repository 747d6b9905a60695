package repository

import (
	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
)

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// CreateVote 创建点赞记录
func (r *InteractionRepository) CreateVote(vote *model.Vote) error {
	return r.db.Create(vote).Error
}

// DeleteVote 删除点赞记录
func (r *InteractionRepository) DeleteVote(userID int64, targetType string, targetID int64) error {
	return r.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&model.Vote{}).Error
}

// VoteExists 检查点赞是否存在
func (r *InteractionRepository) VoteExists(userID int64, targetType string, targetID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Vote{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}

// CreateFollow 创建关注记录
func (r *InteractionRepository) CreateFollow(follow *model.Follow) error {
	return r.db.Create(follow).Error
}

// DeleteFollow 删除关注记录
func (r *InteractionRepository) DeleteFollow(followerID int64, targetType string, targetID int64) error {
	return r.db.Where("follower_id = ? AND target_type = ? AND target_id = ?", followerID, targetType, targetID).
		Delete(&model.Follow{}).Error
}

// FollowExists 检查关注是否存在
func (r *InteractionRepository) FollowExists(followerID int64, targetType string, targetID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND target_type = ? AND target_id = ?", followerID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}

// ListFollowerIDs 获取目标的关注者 ID 集合（新章节多播的收件人来源）
func (r *InteractionRepository) ListFollowerIDs(targetType string, targetID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Follow{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Pluck("follower_id", &ids).Error
	return ids, err
}
