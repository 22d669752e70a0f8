package models

import "gorm.io/gorm"

// Roles stored on users and embedded in JWT claims.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is the account model for both buyers and admins.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role     string `gorm:"size:50;not null;default:USER" json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
