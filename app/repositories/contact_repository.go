package repositories

import (
	"github.com/workhive/workhive/app/models"
	"gorm.io/gorm"
)

// ContactRepository handles database operations for ContactSubmission.
type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(c *models.ContactSubmission) error {
	return r.db.Create(c).Error
}

func (r *ContactRepository) FindByID(id uint) (models.ContactSubmission, error) {
	var c models.ContactSubmission
	err := r.db.First(&c, id).Error
	return c, err
}

func (r *ContactRepository) Update(c *models.ContactSubmission) error {
	return r.db.Save(c).Error
}

// List returns all submissions newest first, optionally filtered by
// status.
func (r *ContactRepository) List(status string) ([]models.ContactSubmission, error) {
	q := r.db.Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.ContactSubmission
	err := q.Find(&list).Error
	return list, err
}

// CountByStatus groups submission counts for the admin stats endpoint.
func (r *ContactRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.Model(&models.ContactSubmission{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rec := range rows {
		out[rec.Status] = rec.N
	}
	return out, nil
}
