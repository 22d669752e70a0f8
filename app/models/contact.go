package models

import "gorm.io/gorm"

// Contact submission statuses.
const (
	ContactNew     = "NEW"
	ContactRead    = "READ"
	ContactReplied = "REPLIED"
	ContactClosed  = "CLOSED"
)

// ContactSubmission is an enquiry from the public contact form.
type ContactSubmission struct {
	gorm.Model
	Name    string `gorm:"size:255;not null"           json:"name"`
	Email   string `gorm:"size:255;not null;index"     json:"email"`
	Subject string `gorm:"size:255;not null"           json:"subject"`
	Message string `gorm:"type:text;not null"          json:"message"`
	Status  string `gorm:"size:20;not null;default:NEW;index" json:"status"`
}
