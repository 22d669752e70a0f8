package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/pkg/logger"
	"github.com/workhive/workhive/pkg/metrics"
	"github.com/workhive/workhive/pkg/razorpay"
	"gorm.io/gorm"
)

// ErrSignatureMismatch means the checkout signature did not verify. The
// local record is left untouched.
var ErrSignatureMismatch = errors.New("payment signature verification failed")

// ErrUnknownGatewayOrder means no order or prebooking carries the given
// gateway order id.
var ErrUnknownGatewayOrder = errors.New("unknown gateway order")

// staleAfter is how long an order may sit in PENDING before the
// reconciliation sweep checks it against the gateway.
const staleAfter = 30 * time.Minute

// CheckoutSession is what the frontend needs to open the gateway
// checkout.
type CheckoutSession struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}

// VerifiedPayment is the verify response.
type VerifiedPayment struct {
	Kind      string               `json:"kind"` // order | prebooking
	ID        uint                 `json:"id"`
	Status    models.PaymentStatus `json:"status"`
	PaymentID string               `json:"payment_id"`
}

type PaymentService struct {
	orders   *repositories.OrderRepository
	orderSvc *OrderService
	gateway  *GatewayConfigService
}

func NewPaymentService(orders *repositories.OrderRepository, orderSvc *OrderService, gateway *GatewayConfigService) *PaymentService {
	return &PaymentService{orders: orders, orderSvc: orderSvc, gateway: gateway}
}

// CreateGatewaySession registers a gateway order for a local PENDING
// order and stores the returned id on the record.
func (s *PaymentService) CreateGatewaySession(orderID uint) (CheckoutSession, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return CheckoutSession{}, err
	}
	if order.Status != models.StatusPending {
		return CheckoutSession{}, &models.InvalidTransitionError{From: order.Status, To: models.StatusPaid}
	}

	client, err := s.gateway.Client()
	if err != nil {
		return CheckoutSession{}, err
	}

	gwOrder, err := client.CreateOrder(order.TotalAmount, order.Currency, order.Receipt)
	if err != nil {
		return CheckoutSession{}, err
	}

	order.GatewayOrderID = gwOrder.ID
	if err := s.orders.Update(&order); err != nil {
		return CheckoutSession{}, fmt.Errorf("payments: store gateway order id: %w", err)
	}

	creds, _ := s.gateway.Load()
	return CheckoutSession{
		GatewayOrderID: gwOrder.ID,
		Amount:         gwOrder.Amount,
		Currency:       gwOrder.Currency,
		KeyID:          creds.KeyID,
	}, nil
}

// CreatePrebookingSession is the prebooking variant.
func (s *PaymentService) CreatePrebookingSession(prebookingID uint) (CheckoutSession, error) {
	p, err := s.orders.FindPrebookingByID(prebookingID)
	if err != nil {
		return CheckoutSession{}, err
	}
	if p.Status != models.StatusPending {
		return CheckoutSession{}, &models.InvalidTransitionError{From: p.Status, To: models.StatusPaid}
	}

	client, err := s.gateway.Client()
	if err != nil {
		return CheckoutSession{}, err
	}

	gwOrder, err := client.CreateOrder(p.Amount, p.Currency, p.Receipt)
	if err != nil {
		return CheckoutSession{}, err
	}

	p.GatewayOrderID = gwOrder.ID
	if err := s.orders.UpdatePrebooking(&p); err != nil {
		return CheckoutSession{}, fmt.Errorf("payments: store gateway order id: %w", err)
	}

	creds, _ := s.gateway.Load()
	return CheckoutSession{
		GatewayOrderID: gwOrder.ID,
		Amount:         gwOrder.Amount,
		Currency:       gwOrder.Currency,
		KeyID:          creds.KeyID,
	}, nil
}

// Verify recomputes the checkout signature and, on a match, advances the
// matching order to PAID or prebooking to COMPLETED. A replay for an
// already-settled record succeeds without touching it again.
func (s *PaymentService) Verify(gatewayOrderID, paymentID, signature string) (VerifiedPayment, error) {
	creds, err := s.gateway.Load()
	if err != nil {
		return VerifiedPayment{}, err
	}

	if !razorpay.VerifySignature(gatewayOrderID, paymentID, signature, creds.KeySecret) {
		metrics.PaymentsVerified.WithLabelValues("mismatch").Inc()
		logger.Warn("payment signature mismatch", "gateway_order_id", gatewayOrderID)
		return VerifiedPayment{}, ErrSignatureMismatch
	}
	metrics.PaymentsVerified.WithLabelValues("ok").Inc()

	if order, err := s.orders.FindByGatewayOrderID(gatewayOrderID); err == nil {
		return s.settleOrder(order, paymentID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return VerifiedPayment{}, err
	}

	if p, err := s.orders.FindPrebookingByGatewayOrderID(gatewayOrderID); err == nil {
		return s.settlePrebooking(p, paymentID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return VerifiedPayment{}, err
	}

	return VerifiedPayment{}, ErrUnknownGatewayOrder
}

func (s *PaymentService) settleOrder(order models.Order, paymentID string) (VerifiedPayment, error) {
	if order.Status != models.StatusPending {
		// Replayed callback: the record is already settled.
		return VerifiedPayment{Kind: "order", ID: order.ID, Status: order.Status, PaymentID: order.PaymentID}, nil
	}

	order.PaymentID = paymentID
	if err := s.orders.Update(&order); err != nil {
		return VerifiedPayment{}, fmt.Errorf("payments: store payment id: %w", err)
	}

	order, err := s.orderSvc.Transition(order.ID, models.StatusPaid)
	if err != nil {
		return VerifiedPayment{}, err
	}
	return VerifiedPayment{Kind: "order", ID: order.ID, Status: order.Status, PaymentID: paymentID}, nil
}

func (s *PaymentService) settlePrebooking(p models.Prebooking, paymentID string) (VerifiedPayment, error) {
	if p.Status == models.StatusPaid {
		// An earlier settle stored the payment but stopped before the
		// COMPLETED transition. The replayed callback finishes it.
		done, err := s.orderSvc.TransitionPrebooking(p.ID, models.StatusCompleted)
		if err != nil {
			return VerifiedPayment{}, err
		}
		return VerifiedPayment{Kind: "prebooking", ID: done.ID, Status: done.Status, PaymentID: done.PaymentID}, nil
	}
	if p.Status != models.StatusPending {
		return VerifiedPayment{Kind: "prebooking", ID: p.ID, Status: p.Status, PaymentID: p.PaymentID}, nil
	}

	p.PaymentID = paymentID
	p.Status = models.StatusPaid
	if err := s.orders.UpdatePrebooking(&p); err != nil {
		return VerifiedPayment{}, fmt.Errorf("payments: store payment id: %w", err)
	}

	p, err := s.orderSvc.TransitionPrebooking(p.ID, models.StatusCompleted)
	if err != nil {
		return VerifiedPayment{}, err
	}
	return VerifiedPayment{Kind: "prebooking", ID: p.ID, Status: p.Status, PaymentID: paymentID}, nil
}

// Refund refunds a PAID order at the gateway, then records the state
// change. Gateway failure leaves the record PAID.
func (s *PaymentService) Refund(orderID uint) (models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return models.Order{}, err
	}
	if err := order.Status.CanTransition(models.StatusRefunded); err != nil {
		return models.Order{}, err
	}
	if order.PaymentID == "" {
		return models.Order{}, fmt.Errorf("payments: order %d has no captured payment", orderID)
	}

	client, err := s.gateway.Client()
	if err != nil {
		return models.Order{}, err
	}
	if _, err := client.RefundPayment(order.PaymentID); err != nil {
		return models.Order{}, err
	}

	return s.orderSvc.Transition(order.ID, models.StatusRefunded)
}

// Sweep settles records stuck in PENDING: paid at the gateway advances
// them, anything older than a day is cancelled. Run on a schedule.
func (s *PaymentService) Sweep() {
	client, err := s.gateway.Client()
	if err != nil {
		logger.Warn("reconcile: gateway unavailable", "error", err)
		return
	}

	cutoff := time.Now().Add(-staleAfter)
	cancelCutoff := time.Now().Add(-24 * time.Hour)

	orders, err := s.orders.StalePending(cutoff)
	if err != nil {
		logger.Error("reconcile: list stale orders", "error", err)
		return
	}
	for _, order := range orders {
		s.reconcileOrder(client, order, cancelCutoff)
	}

	prebookings, err := s.orders.StalePendingPrebookings(cutoff)
	if err != nil {
		logger.Error("reconcile: list stale prebookings", "error", err)
		return
	}
	for _, p := range prebookings {
		s.reconcilePrebooking(client, p, cancelCutoff)
	}
}

func (s *PaymentService) reconcileOrder(client *razorpay.Client, order models.Order, cancelCutoff time.Time) {
	gwOrder, err := client.FetchOrder(order.GatewayOrderID)
	if err != nil {
		logger.Warn("reconcile: fetch order", "order_id", order.ID, "error", err)
		return
	}

	switch gwOrder.Status {
	case "paid":
		if _, err := s.orderSvc.Transition(order.ID, models.StatusPaid); err != nil {
			logger.Error("reconcile: advance order", "order_id", order.ID, "error", err)
		} else {
			logger.Info("reconcile: order settled as paid", "order_id", order.ID)
		}
	default:
		if order.CreatedAt.Before(cancelCutoff) {
			if _, err := s.orderSvc.Transition(order.ID, models.StatusCancelled); err != nil {
				logger.Error("reconcile: cancel order", "order_id", order.ID, "error", err)
			} else {
				logger.Info("reconcile: stale order cancelled", "order_id", order.ID)
			}
		}
	}
}

func (s *PaymentService) reconcilePrebooking(client *razorpay.Client, p models.Prebooking, cancelCutoff time.Time) {
	gwOrder, err := client.FetchOrder(p.GatewayOrderID)
	if err != nil {
		logger.Warn("reconcile: fetch prebooking", "prebooking_id", p.ID, "error", err)
		return
	}

	switch gwOrder.Status {
	case "paid":
		if _, err := s.orderSvc.TransitionPrebooking(p.ID, models.StatusPaid); err != nil {
			logger.Error("reconcile: advance prebooking", "prebooking_id", p.ID, "error", err)
			return
		}
		if _, err := s.orderSvc.TransitionPrebooking(p.ID, models.StatusCompleted); err != nil {
			logger.Error("reconcile: complete prebooking", "prebooking_id", p.ID, "error", err)
		}
	default:
		if p.CreatedAt.Before(cancelCutoff) {
			if _, err := s.orderSvc.TransitionPrebooking(p.ID, models.StatusCancelled); err != nil {
				logger.Error("reconcile: cancel prebooking", "prebooking_id", p.ID, "error", err)
			}
		}
	}
}
