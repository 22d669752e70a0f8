package services

import (
	"errors"
	"fmt"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/pkg/collection"
	"github.com/workhive/workhive/pkg/event"
	"github.com/workhive/workhive/pkg/logger"
)

// ErrBadContactTransition is returned for a triage move the flow
// forbids.
var ErrBadContactTransition = errors.New("invalid contact status transition")

// contactStatusFlow mirrors the admin triage order. Closing is allowed
// from any non-closed state.
var contactStatusFlow = map[string][]string{
	models.ContactNew:     {models.ContactRead, models.ContactClosed},
	models.ContactRead:    {models.ContactReplied, models.ContactClosed},
	models.ContactReplied: {models.ContactClosed},
}

type ContactService struct {
	contacts *repositories.ContactRepository
}

func NewContactService(contacts *repositories.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// Submit persists the enquiry and fires the submission event. The
// fan-out (admin notifications, mail) runs through the outbox; its
// failures never reach the caller.
func (s *ContactService) Submit(name, email, subject, message string) (models.ContactSubmission, error) {
	c := models.ContactSubmission{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  models.ContactNew,
	}
	if err := s.contacts.Create(&c); err != nil {
		return models.ContactSubmission{}, fmt.Errorf("contact: create: %w", err)
	}

	event.Fire(event.ContactSubmitted, c)
	return c, nil
}

// List returns submissions for the admin screen. A database failure
// degrades to an empty list so the dashboard still renders.
func (s *ContactService) List(status string) []models.ContactSubmission {
	list, err := s.contacts.List(status)
	if err != nil {
		logger.Error("contact: list failed, serving empty", "error", err)
		return []models.ContactSubmission{}
	}
	if list == nil {
		list = []models.ContactSubmission{}
	}
	return list
}

// UpdateStatus moves a submission through the triage flow.
func (s *ContactService) UpdateStatus(id uint, to string) (models.ContactSubmission, error) {
	c, err := s.contacts.FindByID(id)
	if err != nil {
		return models.ContactSubmission{}, err
	}

	if c.Status != to && !collection.Contains(contactStatusFlow[c.Status], to) {
		return models.ContactSubmission{}, fmt.Errorf("%w: %s to %s", ErrBadContactTransition, c.Status, to)
	}

	c.Status = to
	if err := s.contacts.Update(&c); err != nil {
		return models.ContactSubmission{}, fmt.Errorf("contact: update status: %w", err)
	}
	return c, nil
}
