package repository

import (
	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create 创建举报记录。不去重：同一内容被反复举报就产生多条记录。
func (r *ReportRepository) Create(report *model.Report) error {
	return r.db.Create(report).Error
}

// ListByTarget 获取目标的举报记录
func (r *ReportRepository) ListByTarget(targetType string, targetID int64) ([]*model.Report, error) {
	var reports []*model.Report
	err := r.db.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").Find(&reports).Error
	return reports, err
}
