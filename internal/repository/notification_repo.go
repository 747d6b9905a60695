package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create 创建通知
func (r *NotificationRepository) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

// CreateBatch 批量创建通知（新章节多播，每个关注者一行）
func (r *NotificationRepository) CreateBatch(notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Create(&notifications).Error
}

// ListByRecipient 获取收件人的通知列表（倒序）
func (r *NotificationRepository) ListByRecipient(recipientID int64, page, pageSize int) ([]*model.Notification, int64, error) {
	var notifications []*model.Notification
	var total int64

	query := r.db.Model(&model.Notification{}).Where("recipient_id = ?", recipientID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// UnreadCount 统计未读数。每次全量 COUNT，不维护计数器，避免并发漂移。
func (r *NotificationRepository) UnreadCount(recipientID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead 将收件人全部未读标记为已读，返回影响行数。
// 重复调用第二次更新 0 行，多端同时打开最多是一次多余的空更新。
func (r *NotificationRepository) MarkAllRead(recipientID int64) (int64, error) {
	result := r.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		UpdateColumn("is_read", true)
	return result.RowsAffected, result.Error
}

// DeleteReadBefore 清理早于 cutoff 的已读通知，返回删除行数
func (r *NotificationRepository) DeleteReadBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}
