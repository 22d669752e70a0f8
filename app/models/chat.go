package models

import "gorm.io/gorm"

// Conversation is a two-party chat thread.
type Conversation struct {
	gorm.Model
	UserAID uint `gorm:"not null;index:idx_conv_pair" json:"user_a_id"`
	UserBID uint `gorm:"not null;index:idx_conv_pair" json:"user_b_id"`
}

// HasParticipant reports whether userID belongs to the conversation.
func (c Conversation) HasParticipant(userID uint) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Message is one chat message. Sending costs the sender one coin.
type Message struct {
	gorm.Model
	ConversationID uint   `gorm:"not null;index"    json:"conversation_id"`
	SenderID       uint   `gorm:"not null;index"    json:"sender_id"`
	Body           string `gorm:"type:text;not null" json:"body"`
}

// CoinWallet holds a user's chat-coin balance.
type CoinWallet struct {
	gorm.Model
	UserID  uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance int64 `gorm:"not null;default:0"   json:"balance"`
}

// Coin transaction reasons.
const (
	CoinReasonPurchase = "PURCHASE"
	CoinReasonMessage  = "MESSAGE"
	CoinReasonRefund   = "REFUND"
)

// CoinTransaction is the wallet ledger. Delta is positive for credits
// and negative for debits; the wallet balance is the running sum.
type CoinTransaction struct {
	gorm.Model
	WalletID uint   `gorm:"not null;index"   json:"wallet_id"`
	Delta    int64  `gorm:"not null"         json:"delta"`
	Reason   string `gorm:"size:30;not null" json:"reason"`
	OrderID  *uint  `gorm:"index"            json:"order_id,omitempty"`
}
