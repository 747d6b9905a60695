package model

import (
	"time"
)

// 举报目标类型
const (
	ReportTargetComment      = "comment"
	ReportTargetBoardComment = "board_comment"
)

// Report 举报记录。ContentSnapshot 在举报时抓取，
// 之后原评论被删除或修改都不影响审核依据。
type Report struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	ReporterID      int64     `gorm:"not null;index" json:"reporter_id"`
	TargetType      string    `gorm:"size:20;not null" json:"target_type"`
	TargetID        int64     `gorm:"not null;index" json:"target_id"`
	Reason          string    `gorm:"size:500;not null" json:"reason"`
	ContentSnapshot string    `gorm:"type:text" json:"content_snapshot"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}
