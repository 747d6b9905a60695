package repository

import (
	"gorm.io/gorm"

	"github.com/inkriver/novel_go_server/internal/model"
)

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create 创建作品
func (r *BookRepository) Create(book *model.Book) error {
	return r.db.Create(book).Error
}

// GetByID 根据 ID 获取作品
func (r *BookRepository) GetByID(id int64) (*model.Book, error) {
	var book model.Book
	err := r.db.Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByIDWithAuthor 获取作品及作者信息
func (r *BookRepository) GetByIDWithAuthor(id int64) (*model.Book, error) {
	var book model.Book
	err := r.db.Preload("Author").Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Update 更新作品
func (r *BookRepository) Update(book *model.Book) error {
	return r.db.Save(book).Error
}

// ListPublished 获取已上架作品列表
func (r *BookRepository) ListPublished(page, pageSize int) ([]*model.Book, int64, error) {
	var books []*model.Book
	var total int64

	query := r.db.Model(&model.Book{}).
		Preload("Author").
		Where("is_published = ?", true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&books).Error
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// ListByAuthorID 获取作者的作品列表
func (r *BookRepository) ListByAuthorID(authorID int64) ([]*model.Book, error) {
	var books []*model.Book
	err := r.db.Where("author_id = ?", authorID).Order("created_at DESC").Find(&books).Error
	return books, err
}

// IncrementCommentCount 增减评论数
func (r *BookRepository) IncrementCommentCount(id int64, delta int) error {
	return r.db.Model(&model.Book{}).Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
}

// IncrementVoteCount 增减点赞数
func (r *BookRepository) IncrementVoteCount(id int64, delta int) error {
	return r.db.Model(&model.Book{}).Where("id = ?", id).
		UpdateColumn("vote_count", gorm.Expr("vote_count + ?", delta)).Error
}
