package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/pkg/logger"
	"github.com/workhive/workhive/pkg/ws"
	"gorm.io/gorm"
)

// ErrInsufficientCoins means the sender's wallet cannot cover a message.
var ErrInsufficientCoins = errors.New("insufficient coin balance")

// ErrNotParticipant means the user is not part of the conversation.
var ErrNotParticipant = errors.New("not a participant of this conversation")

const messageCost = 1

type ChatService struct {
	chats *repositories.ChatRepository
	hub   *ws.Hub
}

// NewChatService wires the repository and an optional websocket hub for
// live delivery. hub may be nil in tests and CLI contexts.
func NewChatService(chats *repositories.ChatRepository, hub *ws.Hub) *ChatService {
	return &ChatService{chats: chats, hub: hub}
}

// OpenConversation finds or starts the thread between two users.
func (s *ChatService) OpenConversation(userID, peerID uint) (models.Conversation, error) {
	if userID == peerID {
		return models.Conversation{}, errors.New("cannot open a conversation with yourself")
	}
	return s.chats.FindOrCreateConversation(userID, peerID)
}

func (s *ChatService) Conversations(userID uint) ([]models.Conversation, error) {
	return s.chats.ListConversations(userID)
}

// Messages returns recent messages for a participant.
func (s *ChatService) Messages(conversationID, userID uint, limit int) ([]models.Message, error) {
	conv, err := s.chats.FindConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return s.chats.ListMessages(conversationID, limit)
}

// Send debits one coin and stores the message in a single transaction:
// either both happen or neither does. The debit uses a guarded UPDATE so
// two concurrent sends cannot overdraw the wallet.
func (s *ChatService) Send(conversationID, senderID uint, body string) (models.Message, error) {
	conv, err := s.chats.FindConversation(conversationID)
	if err != nil {
		return models.Message{}, err
	}
	if !conv.HasParticipant(senderID) {
		return models.Message{}, ErrNotParticipant
	}

	wallet, err := s.chats.Wallet(senderID)
	if err != nil {
		return models.Message{}, fmt.Errorf("chat: load wallet: %w", err)
	}

	msg := models.Message{ConversationID: conversationID, SenderID: senderID, Body: body}
	err = s.chats.DB().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CoinWallet{}).
			Where("id = ? AND balance >= ?", wallet.ID, messageCost).
			UpdateColumn("balance", gorm.Expr("balance - ?", messageCost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCoins
		}

		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Create(&models.CoinTransaction{
			WalletID: wallet.ID,
			Delta:    -messageCost,
			Reason:   models.CoinReasonMessage,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientCoins) {
			return models.Message{}, err
		}
		return models.Message{}, fmt.Errorf("chat: send: %w", err)
	}

	s.broadcast(conversationID, msg)
	return msg, nil
}

// Balance returns the user's coin balance.
func (s *ChatService) Balance(userID uint) (int64, error) {
	wallet, err := s.chats.Wallet(userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// HandleOrderPaid credits purchased coins when a coin-pack order is
// paid. Registered as an order.paid listener at boot.
func (s *ChatService) HandleOrderPaid(payload interface{}) {
	order, ok := payload.(models.Order)
	if !ok || order.Kind != models.OrderKindCoinPack || order.CoinAmount <= 0 {
		return
	}

	wallet, err := s.chats.Wallet(order.BuyerID)
	if err != nil {
		logger.Error("chat: load wallet for credit", "order_id", order.ID, "error", err)
		return
	}

	orderID := order.ID
	err = s.chats.DB().Transaction(func(tx *gorm.DB) error {
		// The ledger row is the idempotency guard: a replayed event
		// would try to insert a second credit for the same order.
		var existing int64
		if err := tx.Model(&models.CoinTransaction{}).
			Where("order_id = ? AND reason = ?", orderID, models.CoinReasonPurchase).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		if err := tx.Model(&models.CoinWallet{}).
			Where("id = ?", wallet.ID).
			UpdateColumn("balance", gorm.Expr("balance + ?", order.CoinAmount)).Error; err != nil {
			return err
		}
		return tx.Create(&models.CoinTransaction{
			WalletID: wallet.ID,
			Delta:    order.CoinAmount,
			Reason:   models.CoinReasonPurchase,
			OrderID:  &orderID,
		}).Error
	})
	if err != nil {
		logger.Error("chat: credit coins", "order_id", order.ID, "error", err)
		return
	}
	logger.Info("chat: coins credited", "order_id", order.ID, "coins", order.CoinAmount)
}

func (s *ChatService) broadcast(conversationID uint, msg models.Message) {
	if s.hub == nil {
		return
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.hub.Broadcast(fmt.Sprintf("conversation:%d", conversationID), raw)
}
