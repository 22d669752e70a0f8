package repositories

import (
	"github.com/workhive/workhive/app/models"
	"gorm.io/gorm"
)

// ChatRepository handles conversations, messages and coin wallets.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// DB exposes the handle so the chat service can run the message-plus-
// debit transaction.
func (r *ChatRepository) DB() *gorm.DB { return r.db }

// FindOrCreateConversation returns the thread between two users,
// creating it on first contact. Participant order does not matter.
func (r *ChatRepository) FindOrCreateConversation(userA, userB uint) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.
		Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)",
			userA, userB, userB, userA).
		First(&conv).Error
	if err == nil {
		return conv, nil
	}
	if err != gorm.ErrRecordNotFound {
		return conv, err
	}

	conv = models.Conversation{UserAID: userA, UserBID: userB}
	err = r.db.Create(&conv).Error
	return conv, err
}

func (r *ChatRepository) FindConversation(id uint) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.First(&conv, id).Error
	return conv, err
}

func (r *ChatRepository) ListConversations(userID uint) ([]models.Conversation, error) {
	var list []models.Conversation
	err := r.db.
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&list).Error
	return list, err
}

func (r *ChatRepository) ListMessages(conversationID uint, limit int) ([]models.Message, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var list []models.Message
	err := r.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at desc").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// Wallet returns the user's wallet, creating an empty one on first use.
func (r *ChatRepository) Wallet(userID uint) (models.CoinWallet, error) {
	var w models.CoinWallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if err == gorm.ErrRecordNotFound {
		w = models.CoinWallet{UserID: userID}
		err = r.db.Create(&w).Error
	}
	return w, err
}
