package cron

import (
	"log"
	"time"

	"github.com/inkriver/novel_go_server/internal/repository"
)

type Service struct {
	notificationRepo *repository.NotificationRepository
	retentionDays    int
	stopChan         chan struct{}
}

func NewService(notificationRepo *repository.NotificationRepository, retentionDays int) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		retentionDays:    retentionDays,
		stopChan:         make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runNotificationPrune()
	log.Println("Cron service started (notification prune)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runNotificationPrune 每日清理过期已读通知
func (s *Service) runNotificationPrune() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.pruneNotifications()
			timer.Reset(24 * time.Hour)
		}
	}
}

// pruneNotifications 删除超过保留期的已读通知。未读通知永不清理。
func (s *Service) pruneNotifications() {
	if s.retentionDays <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.notificationRepo.DeleteReadBefore(cutoff)
	if err != nil {
		log.Printf("Failed to prune notifications: %v", err)
		return
	}
	log.Printf("Notification prune completed, deleted: %d", deleted)
}
