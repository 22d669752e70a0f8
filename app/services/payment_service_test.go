package services_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/config"
	"github.com/workhive/workhive/pkg/event"
	"github.com/workhive/workhive/pkg/razorpay"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeGateway answers create-order and fetch-order like the real API.
func fakeGateway(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/orders":
			json.NewEncoder(w).Encode(razorpay.Order{
				ID: "order_fake_1", Amount: 9900, Currency: "INR", Status: "created",
			})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/orders/"):
			json.NewEncoder(w).Encode(razorpay.Order{
				ID: strings.TrimPrefix(r.URL.Path, "/v1/orders/"), Status: "paid",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":"NOT_FOUND","description":"no such route"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newPaymentStack(t *testing.T, gatewayURL string) (*services.PaymentService, *services.OrderService, *gorm.DB) {
	t.Helper()
	db := testDB(t)

	cfgPath := filepath.Join(t.TempDir(), "razorpay-config.json")
	config.Set("GATEWAY_CONFIG_PATH", cfgPath)

	gatewaySvc := services.NewGatewayConfigService()
	fieldErrs, err := gatewaySvc.Save(razorpay.Credentials{
		KeyID:     "rzp_test_abcdefgh123456",
		KeySecret: testSecret,
		BaseURL:   gatewayURL,
	})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	orderRepo := repositories.NewOrderRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	orderSvc := services.NewOrderService(orderRepo, projectRepo)
	paymentSvc := services.NewPaymentService(orderRepo, orderSvc, gatewaySvc)
	return paymentSvc, orderSvc, db
}

func TestVerifySettlesOrderAndReplayIsNoOp(t *testing.T) {
	srv := fakeGateway(t)
	paymentSvc, orderSvc, db := newPaymentStack(t, srv.URL)

	event.Flush()
	t.Cleanup(event.Flush)
	var paidEvents int
	event.Listen(event.OrderPaid, func(interface{}) { paidEvents++ })

	buyer := seedUser(t, db, models.RoleUser)
	p := seedProject(t, db, 99)
	order, err := orderSvc.CreateProjectOrder(buyer.ID, p.ID)
	require.NoError(t, err)

	session, err := paymentSvc.CreateGatewaySession(order.ID)
	require.NoError(t, err)
	require.Equal(t, "order_fake_1", session.GatewayOrderID)
	require.EqualValues(t, 9900, session.Amount)

	sig := razorpay.Sign(session.GatewayOrderID, "pay_1", testSecret)

	verified, err := paymentSvc.Verify(session.GatewayOrderID, "pay_1", sig)
	require.NoError(t, err)
	require.Equal(t, models.StatusPaid, verified.Status)
	require.Equal(t, 1, paidEvents)

	// Replay: same answer, no second event, record untouched.
	verified, err = paymentSvc.Verify(session.GatewayOrderID, "pay_1", sig)
	require.NoError(t, err)
	require.Equal(t, models.StatusPaid, verified.Status)
	require.Equal(t, "pay_1", verified.PaymentID)
	require.Equal(t, 1, paidEvents)
}

func TestVerifyMismatchLeavesRecordUntouched(t *testing.T) {
	srv := fakeGateway(t)
	paymentSvc, orderSvc, db := newPaymentStack(t, srv.URL)

	buyer := seedUser(t, db, models.RoleUser)
	p := seedProject(t, db, 99)
	order, err := orderSvc.CreateProjectOrder(buyer.ID, p.ID)
	require.NoError(t, err)

	session, err := paymentSvc.CreateGatewaySession(order.ID)
	require.NoError(t, err)

	_, err = paymentSvc.Verify(session.GatewayOrderID, "pay_1", "bogus-signature")
	require.ErrorIs(t, err, services.ErrSignatureMismatch)

	got, err := orderSvc.Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, got.Status)
	require.Empty(t, got.PaymentID)
}

func TestVerifySettlesPrebookingToCompleted(t *testing.T) {
	srv := fakeGateway(t)
	paymentSvc, orderSvc, db := newPaymentStack(t, srv.URL)

	buyer := seedUser(t, db, models.RoleUser)
	p, err := orderSvc.CreatePrebooking(buyer.ID, "Beta", "{}", 499, "INR")
	require.NoError(t, err)

	session, err := paymentSvc.CreatePrebookingSession(p.ID)
	require.NoError(t, err)

	sig := razorpay.Sign(session.GatewayOrderID, "pay_2", testSecret)
	verified, err := paymentSvc.Verify(session.GatewayOrderID, "pay_2", sig)
	require.NoError(t, err)
	require.Equal(t, "prebooking", verified.Kind)
	require.Equal(t, models.StatusCompleted, verified.Status)
	_ = db
}

func TestVerifyFinishesPrebookingStrandedAtPaid(t *testing.T) {
	srv := fakeGateway(t)
	paymentSvc, orderSvc, db := newPaymentStack(t, srv.URL)

	buyer := seedUser(t, db, models.RoleUser)
	p, err := orderSvc.CreatePrebooking(buyer.ID, "Beta", "{}", 499, "INR")
	require.NoError(t, err)
	session, err := paymentSvc.CreatePrebookingSession(p.ID)
	require.NoError(t, err)

	// A settle that recorded the payment but died before the COMPLETED
	// transition leaves the row at PAID.
	require.NoError(t, db.Model(&models.Prebooking{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{"status": models.StatusPaid, "payment_id": "pay_9"}).Error)

	sig := razorpay.Sign(session.GatewayOrderID, "pay_9", testSecret)
	verified, err := paymentSvc.Verify(session.GatewayOrderID, "pay_9", sig)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, verified.Status)
	require.Equal(t, "pay_9", verified.PaymentID)

	var stored models.Prebooking
	require.NoError(t, db.First(&stored, p.ID).Error)
	require.Equal(t, models.StatusCompleted, stored.Status)
}

func TestGatewaySecretIsEncryptedAtRest(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "razorpay-config.json")
	config.Set("GATEWAY_CONFIG_PATH", cfgPath)

	gatewaySvc := services.NewGatewayConfigService()
	fieldErrs, err := gatewaySvc.Save(razorpay.Credentials{
		KeyID:     "rzp_test_abcdefgh123456",
		KeySecret: testSecret,
	})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	raw, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.NotContains(t, string(raw), testSecret)
	require.Contains(t, string(raw), "rzp_test_abcdefgh123456")

	// Round-trip through a fresh service instance reads the file back.
	creds, err := services.NewGatewayConfigService().Load()
	require.NoError(t, err)
	require.Equal(t, testSecret, creds.KeySecret)
}
