package services

import (
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/pkg/metrics"
)

type NotificationService struct {
	notifications *repositories.NotificationRepository
	users         *repositories.UserRepository
}

func NewNotificationService(notifications *repositories.NotificationRepository, users *repositories.UserRepository) *NotificationService {
	return &NotificationService{notifications: notifications, users: users}
}

// FanOutToAdmins writes one notification row per admin user. The outbox
// job calls this; a returned error triggers the job's retry.
func (s *NotificationService) FanOutToAdmins(title, message, notifType string) error {
	admins, err := s.users.Admins()
	if err != nil {
		return err
	}

	rows := make([]models.Notification, 0, len(admins))
	for _, admin := range admins {
		rows = append(rows, models.Notification{
			UserID:  admin.ID,
			Title:   title,
			Message: message,
			Type:    notifType,
		})
	}
	if err := s.notifications.CreateBatch(rows); err != nil {
		return err
	}

	metrics.NotificationsFanned.Add(float64(len(rows)))
	return nil
}

func (s *NotificationService) ListForUser(userID uint, unreadOnly bool) ([]models.Notification, error) {
	list, err := s.notifications.ListByUser(userID, unreadOnly)
	if list == nil {
		list = []models.Notification{}
	}
	return list, err
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.notifications.MarkRead(id, userID)
}
