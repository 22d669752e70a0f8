package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/pkg/database"
	"gorm.io/gorm"
)

// testDB opens a fresh in-memory sqlite database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Order{},
		&models.Prebooking{},
		&models.ContactSubmission{},
		&models.Notification{},
		&models.Conversation{},
		&models.Message{},
		&models.CoinWallet{},
		&models.CoinTransaction{},
		&models.Post{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	u := models.User{
		Name:     "Test " + role,
		Email:    fmt.Sprintf("%s-%s@example.com", t.Name(), role),
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedProject(t *testing.T, db *gorm.DB, price float64) models.Project {
	t.Helper()
	p := models.Project{Title: "Fixture project", Price: price, Category: "web", OwnerID: 1}
	require.NoError(t, db.Create(&p).Error)
	return p
}
