package migrations

import (
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260301000000_create_users_table", &createUsersTable{})
	migration.Register("20260301000001_create_projects_table", &createProjectsTable{})
	migration.Register("20260301000002_create_orders_tables", &createOrdersTables{})
	migration.Register("20260301000003_create_contact_submissions_table", &createContactSubmissionsTable{})
	migration.Register("20260301000004_create_notifications_table", &createNotificationsTable{})
	migration.Register("20260301000005_create_chat_tables", &createChatTables{})
	migration.Register("20260301000006_create_posts_table", &createPostsTable{})
}

type createUsersTable struct{}

func (m *createUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *createUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type createProjectsTable struct{}

func (m *createProjectsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Project{})
}

func (m *createProjectsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("projects")
}

type createOrdersTables struct{}

func (m *createOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.Prebooking{})
}

func (m *createOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("orders", "prebookings")
}

type createContactSubmissionsTable struct{}

func (m *createContactSubmissionsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ContactSubmission{})
}

func (m *createContactSubmissionsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("contact_submissions")
}

type createNotificationsTable struct{}

func (m *createNotificationsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Notification{})
}

func (m *createNotificationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("notifications")
}

type createChatTables struct{}

func (m *createChatTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Conversation{},
		&models.Message{},
		&models.CoinWallet{},
		&models.CoinTransaction{},
	)
}

func (m *createChatTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("conversations", "messages", "coin_wallets", "coin_transactions")
}

type createPostsTable struct{}

func (m *createPostsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Post{})
}

func (m *createPostsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("posts")
}
