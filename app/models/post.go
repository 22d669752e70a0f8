package models

import "gorm.io/gorm"

// Post is a mini-office feed entry.
type Post struct {
	gorm.Model
	AuthorID uint   `gorm:"not null;index"     json:"author_id"`
	Body     string `gorm:"type:text;not null" json:"body"`
	Likes    int    `gorm:"not null;default:0" json:"likes"`
}
