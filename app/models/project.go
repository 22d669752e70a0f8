package models

import "gorm.io/gorm"

// Project is a marketplace listing.
type Project struct {
	gorm.Model
	Title          string  `gorm:"size:255;not null;index" json:"title"`
	Description    string  `gorm:"type:text"               json:"description"`
	Price          float64 `gorm:"not null;default:0"      json:"price"`
	Category       string  `gorm:"size:100;index"          json:"category"`
	OwnerID        uint    `gorm:"not null;index"          json:"owner_id"`
	AttachmentPath string  `gorm:"size:512"                json:"attachment_path,omitempty"`
	AttachmentURL  string  `gorm:"-"                       json:"attachment_url,omitempty"`
}
