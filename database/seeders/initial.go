package seeders

import (
	"errors"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin-user", seedAdminUser)
	Register("sample-projects", seedSampleProjects)
}

// seedAdminUser creates the bootstrap admin account if none exists.
func seedAdminUser(db *gorm.DB) error {
	var existing models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("change-me-on-first-login")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     "Admin",
		Email:    "admin@workhive.app",
		Password: hash,
		Role:     models.RoleAdmin,
	}).Error
}

func seedSampleProjects(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Project{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	projects := []models.Project{
		{Title: "Landing page build", Description: "Responsive marketing site", Price: 4999, Category: "web", OwnerID: 1},
		{Title: "Logo design pack", Description: "Three concepts, two revisions", Price: 1499, Category: "design", OwnerID: 1},
		{Title: "API integration", Description: "Connect your storefront to a payment gateway", Price: 7999, Category: "backend", OwnerID: 1},
	}
	return db.Create(&projects).Error
}
