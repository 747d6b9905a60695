package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
)

type ChapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// Create 创建章节
func (r *ChapterRepository) Create(chapter *model.Chapter) error {
	return r.db.Create(chapter).Error
}

// GetByID 根据 ID 获取章节
func (r *ChapterRepository) GetByID(id int64) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.db.Where("id = ?", id).First(&chapter).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

// ListByBookID 获取作品的章节列表（按序号）
func (r *ChapterRepository) ListByBookID(bookID int64, publishedOnly bool) ([]*model.Chapter, error) {
	var chapters []*model.Chapter
	query := r.db.Where("book_id = ?", bookID)
	if publishedOnly {
		query = query.Where("published_at IS NOT NULL")
	}
	err := query.Order("seq ASC").Find(&chapters).Error
	return chapters, err
}

// NextSeq 获取作品下一个章节序号
func (r *ChapterRepository) NextSeq(bookID int64) (int, error) {
	var maxSeq int
	err := r.db.Model(&model.Chapter{}).Where("book_id = ?", bookID).
		Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error
	return maxSeq + 1, err
}

// MarkPublished 标记章节为已发布
func (r *ChapterRepository) MarkPublished(id int64, publishedAt time.Time) error {
	return r.db.Model(&model.Chapter{}).Where("id = ?", id).
		UpdateColumn("published_at", publishedAt).Error
}
