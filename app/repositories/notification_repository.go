package repositories

import (
	"github.com/workhive/workhive/app/models"
	"gorm.io/gorm"
)

// NotificationRepository handles database operations for Notification.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

// CreateBatch writes one notification row per recipient in a single
// insert.
func (r *NotificationRepository) CreateBatch(ns []models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.Create(&ns).Error
}

func (r *NotificationRepository) ListByUser(userID uint, unreadOnly bool) ([]models.Notification, error) {
	q := r.db.Where("user_id = ?", userID).Order("created_at desc")
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var list []models.Notification
	err := q.Find(&list).Error
	return list, err
}

// MarkRead flips the read flag. Only the owner's rows are touched.
func (r *NotificationRepository) MarkRead(id, userID uint) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
