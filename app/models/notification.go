package models

import "gorm.io/gorm"

// Notification types written by the fan-out jobs.
const (
	NotifyContact   = "CONTACT"
	NotifyOrderPaid = "ORDER_PAID"
	NotifyRefund    = "REFUND"
)

// Notification is an in-app notification row, one per recipient.
type Notification struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index"        json:"user_id"`
	Title   string `gorm:"size:255;not null"     json:"title"`
	Message string `gorm:"type:text"             json:"message"`
	Type    string `gorm:"size:30;not null"      json:"type"`
	Read    bool   `gorm:"not null;default:false;index" json:"read"`
}
