package repositories

import (
	"github.com/workhive/workhive/app/models"
	"gorm.io/gorm"
)

// ProjectRepository handles database operations for Project.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) FindByID(id uint) (models.Project, error) {
	var p models.Project
	err := r.db.First(&p, id).Error
	return p, err
}

// List returns a page of projects, optionally filtered by category,
// plus the unfiltered total for pagination.
func (r *ProjectRepository) List(category string, page, limit int) ([]models.Project, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := r.db.Model(&models.Project{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := q.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&projects).Error
	return projects, total, err
}

func (r *ProjectRepository) Create(p *models.Project) error {
	return r.db.Create(p).Error
}

func (r *ProjectRepository) Update(p *models.Project) error {
	return r.db.Save(p).Error
}

func (r *ProjectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Project{}, id).Error
}
