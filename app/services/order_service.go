package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/pkg/event"
	"github.com/workhive/workhive/pkg/logger"
)

// coinPacks maps purchasable pack sizes to their price in INR. The
// client sends a pack size; the price always comes from this table.
var coinPacks = map[int64]float64{
	10:  99,
	50:  399,
	100: 699,
}

// ErrUnknownCoinPack is returned for a pack size not on sale.
var ErrUnknownCoinPack = errors.New("unknown coin pack size")

// PurchaseHistory is the buyer's combined order and prebooking view.
type PurchaseHistory struct {
	Orders      []models.Order      `json:"orders"`
	Prebookings []models.Prebooking `json:"prebookings"`
}

type OrderService struct {
	orders   *repositories.OrderRepository
	projects *repositories.ProjectRepository
}

func NewOrderService(orders *repositories.OrderRepository, projects *repositories.ProjectRepository) *OrderService {
	return &OrderService{orders: orders, projects: projects}
}

// CreateProjectOrder opens a PENDING order for a project. The amount is
// recomputed from the catalog; a price sent by the client is ignored.
func (s *OrderService) CreateProjectOrder(buyerID, projectID uint) (models.Order, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return models.Order{}, fmt.Errorf("orders: load project %d: %w", projectID, err)
	}

	order := models.Order{
		BuyerID:     buyerID,
		ProjectID:   &project.ID,
		Kind:        models.OrderKindProject,
		TotalAmount: project.Price,
		Currency:    "INR",
		Status:      models.StatusPending,
		Receipt:     newReceipt(),
	}
	if err := s.orders.Create(&order); err != nil {
		return models.Order{}, fmt.Errorf("orders: create: %w", err)
	}
	return order, nil
}

// CreateCoinPackOrder opens a PENDING order for a chat coin pack.
func (s *OrderService) CreateCoinPackOrder(buyerID uint, packSize int64) (models.Order, error) {
	price, ok := coinPacks[packSize]
	if !ok {
		return models.Order{}, ErrUnknownCoinPack
	}

	order := models.Order{
		BuyerID:     buyerID,
		Kind:        models.OrderKindCoinPack,
		TotalAmount: price,
		Currency:    "INR",
		Status:      models.StatusPending,
		Receipt:     newReceipt(),
		CoinAmount:  packSize,
	}
	if err := s.orders.Create(&order); err != nil {
		return models.Order{}, fmt.Errorf("orders: create coin pack: %w", err)
	}
	return order, nil
}

// Transition moves an order through the status table. A same-state
// request returns the order untouched; the paid and refunded events
// fire only on a real state change. The status write is guarded by the
// observed state, so two racing callers cannot both win the same
// transition and double-fire events.
func (s *OrderService) Transition(orderID uint, to models.PaymentStatus) (models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return models.Order{}, err
	}

	if err := order.Status.CanTransition(to); err != nil {
		return models.Order{}, err
	}
	if order.Status == to {
		return order, nil
	}

	from := order.Status
	moved, err := s.orders.UpdateStatusFrom(order.ID, from, to)
	if err != nil {
		return models.Order{}, fmt.Errorf("orders: update status: %w", err)
	}
	if !moved {
		// Lost the race: re-read and re-evaluate against the new state.
		// The table is forward-only, so this terminates.
		return s.Transition(orderID, to)
	}
	order.Status = to

	logger.Info("order status changed", "order_id", order.ID, "from", from, "to", to)
	switch to {
	case models.StatusPaid:
		event.Fire(event.OrderPaid, order)
	case models.StatusRefunded:
		event.Fire(event.OrderRefunded, order)
	}
	return order, nil
}

// CreatePrebooking opens a PENDING prebooking.
func (s *OrderService) CreatePrebooking(buyerID uint, productTitle, userDetails string, amount float64, currency string) (models.Prebooking, error) {
	if currency == "" {
		currency = "INR"
	}
	p := models.Prebooking{
		ProductTitle: productTitle,
		BuyerID:      buyerID,
		UserDetails:  userDetails,
		Amount:       amount,
		Currency:     currency,
		Status:       models.StatusPending,
		Receipt:      newReceipt(),
	}
	if err := s.orders.CreatePrebooking(&p); err != nil {
		return models.Prebooking{}, fmt.Errorf("orders: create prebooking: %w", err)
	}
	return p, nil
}

// TransitionPrebooking moves a prebooking through the same status table.
func (s *OrderService) TransitionPrebooking(id uint, to models.PaymentStatus) (models.Prebooking, error) {
	p, err := s.orders.FindPrebookingByID(id)
	if err != nil {
		return models.Prebooking{}, err
	}

	if err := p.Status.CanTransition(to); err != nil {
		return models.Prebooking{}, err
	}
	if p.Status == to {
		return p, nil
	}

	moved, err := s.orders.UpdatePrebookingStatusFrom(p.ID, p.Status, to)
	if err != nil {
		return models.Prebooking{}, fmt.Errorf("orders: update prebooking status: %w", err)
	}
	if !moved {
		return s.TransitionPrebooking(id, to)
	}
	p.Status = to

	if to == models.StatusCompleted {
		event.Fire(event.PrebookingPaid, p)
	}
	return p, nil
}

// History loads a buyer's orders and prebookings concurrently.
func (s *OrderService) History(buyerID uint) (PurchaseHistory, error) {
	var (
		wg   sync.WaitGroup
		out  PurchaseHistory
		oErr error
		pErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		out.Orders, oErr = s.orders.ListByBuyer(buyerID)
	}()
	go func() {
		defer wg.Done()
		out.Prebookings, pErr = s.orders.ListPrebookingsByBuyer(buyerID)
	}()
	wg.Wait()

	if oErr != nil {
		return PurchaseHistory{}, fmt.Errorf("orders: list orders: %w", oErr)
	}
	if pErr != nil {
		return PurchaseHistory{}, fmt.Errorf("orders: list prebookings: %w", pErr)
	}
	return out, nil
}

// AdminHistory is the unscoped variant for admin screens.
func (s *OrderService) AdminHistory() (PurchaseHistory, error) {
	var (
		wg   sync.WaitGroup
		out  PurchaseHistory
		oErr error
		pErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		out.Orders, oErr = s.orders.ListAll()
	}()
	go func() {
		defer wg.Done()
		out.Prebookings, pErr = s.orders.ListAllPrebookings()
	}()
	wg.Wait()

	if oErr != nil {
		return PurchaseHistory{}, oErr
	}
	if pErr != nil {
		return PurchaseHistory{}, pErr
	}
	return out, nil
}

func (s *OrderService) Get(id uint) (models.Order, error) {
	return s.orders.FindByID(id)
}

func newReceipt() string {
	return "rcpt_" + uuid.NewString()
}
