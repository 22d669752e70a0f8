package repositories

import (
	"github.com/workhive/workhive/app/models"
	"gorm.io/gorm"
)

// PostRepository handles database operations for mini-office posts.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(p *models.Post) error {
	return r.db.Create(p).Error
}

func (r *PostRepository) FindByID(id uint) (models.Post, error) {
	var p models.Post
	err := r.db.First(&p, id).Error
	return p, err
}

func (r *PostRepository) Update(p *models.Post) error {
	return r.db.Save(p).Error
}

func (r *PostRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

func (r *PostRepository) ListNewestFirst(limit int) ([]models.Post, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var list []models.Post
	err := r.db.Order("created_at desc").Limit(limit).Find(&list).Error
	return list, err
}

// Like atomically bumps the like counter.
func (r *PostRepository) Like(id uint) error {
	res := r.db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
