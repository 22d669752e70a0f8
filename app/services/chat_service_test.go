package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/app/services"
	"gorm.io/gorm"
)

func newChatService(t *testing.T) (*services.ChatService, *gorm.DB) {
	db := testDB(t)
	return services.NewChatService(repositories.NewChatRepository(db), nil), db
}

func creditWallet(t *testing.T, db *gorm.DB, userID uint, coins int64) {
	t.Helper()
	var wallet models.CoinWallet
	require.NoError(t, db.Where(models.CoinWallet{UserID: userID}).
		Assign(map[string]interface{}{"balance": coins}).
		FirstOrCreate(&wallet).Error)
}

func TestSendDebitsOneCoinPerMessage(t *testing.T) {
	svc, db := newChatService(t)
	alice := seedUser(t, db, models.RoleUser)
	bob := seedUser(t, db, models.RoleAdmin)
	creditWallet(t, db, alice.ID, 2)

	conv, err := svc.OpenConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	msg, err := svc.Send(conv.ID, alice.ID, "hello")
	require.NoError(t, err)
	require.Equal(t, alice.ID, msg.SenderID)

	balance, err := svc.Balance(alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, balance)

	_, err = svc.Send(conv.ID, alice.ID, "again")
	require.NoError(t, err)

	// Wallet empty now: the third send is rejected and stores nothing.
	_, err = svc.Send(conv.ID, alice.ID, "broke")
	require.ErrorIs(t, err, services.ErrInsufficientCoins)

	var count int64
	require.NoError(t, db.Model(&models.Message{}).
		Where("conversation_id = ?", conv.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestSendRejectsNonParticipant(t *testing.T) {
	svc, db := newChatService(t)
	alice := seedUser(t, db, models.RoleUser)
	bob := seedUser(t, db, models.RoleAdmin)
	eve := models.User{Name: "Eve", Email: t.Name() + "-eve@example.com", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&eve).Error)
	creditWallet(t, db, eve.ID, 10)

	conv, err := svc.OpenConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.Send(conv.ID, eve.ID, "let me in")
	require.ErrorIs(t, err, services.ErrNotParticipant)

	_, err = svc.Messages(conv.ID, eve.ID, 10)
	require.ErrorIs(t, err, services.ErrNotParticipant)
}

func TestOpenConversationIsOrderAgnostic(t *testing.T) {
	svc, db := newChatService(t)
	alice := seedUser(t, db, models.RoleUser)
	bob := seedUser(t, db, models.RoleAdmin)

	first, err := svc.OpenConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	second, err := svc.OpenConversation(bob.ID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	_, err = svc.OpenConversation(alice.ID, alice.ID)
	require.Error(t, err)
}

func TestHandleOrderPaidCreditsOnce(t *testing.T) {
	svc, db := newChatService(t)
	buyer := seedUser(t, db, models.RoleUser)

	order := models.Order{
		BuyerID:     buyer.ID,
		Kind:        models.OrderKindCoinPack,
		TotalAmount: 399,
		Currency:    "INR",
		Status:      models.StatusPaid,
		CoinAmount:  50,
	}
	require.NoError(t, db.Create(&order).Error)

	svc.HandleOrderPaid(order)
	balance, err := svc.Balance(buyer.ID)
	require.NoError(t, err)
	require.EqualValues(t, 50, balance)

	// Replayed event: the ledger row blocks a second credit.
	svc.HandleOrderPaid(order)
	balance, err = svc.Balance(buyer.ID)
	require.NoError(t, err)
	require.EqualValues(t, 50, balance)
}

func TestHandleOrderPaidIgnoresProjectOrders(t *testing.T) {
	svc, db := newChatService(t)
	buyer := seedUser(t, db, models.RoleUser)
	p := seedProject(t, db, 100)
	pid := p.ID

	order := models.Order{
		BuyerID:   buyer.ID,
		ProjectID: &pid,
		Kind:      models.OrderKindProject,
		Status:    models.StatusPaid,
	}
	require.NoError(t, db.Create(&order).Error)

	svc.HandleOrderPaid(order)
	balance, err := svc.Balance(buyer.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, balance)
}
