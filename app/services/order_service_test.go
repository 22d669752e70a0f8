package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/pkg/event"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (*services.OrderService, *gorm.DB) {
	db := testDB(t)
	orderRepo := repositories.NewOrderRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	return services.NewOrderService(orderRepo, projectRepo), db
}

func TestCreateProjectOrderRecomputesPrice(t *testing.T) {
	svc, db := newOrderService(t)
	buyer := seedUser(t, db, models.RoleUser)

	p := seedProject(t, db, 4999)

	order, err := svc.CreateProjectOrder(buyer.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, order.Status)
	require.Equal(t, 4999.0, order.TotalAmount)
	require.NotEmpty(t, order.Receipt)
	require.Equal(t, models.OrderKindProject, order.Kind)
}

func TestCreateCoinPackOrderRejectsUnknownPack(t *testing.T) {
	svc, db := newOrderService(t)
	buyer := seedUser(t, db, models.RoleUser)

	_, err := svc.CreateCoinPackOrder(buyer.ID, 7)
	require.ErrorIs(t, err, services.ErrUnknownCoinPack)

	order, err := svc.CreateCoinPackOrder(buyer.ID, 50)
	require.NoError(t, err)
	require.Equal(t, models.OrderKindCoinPack, order.Kind)
	require.EqualValues(t, 50, order.CoinAmount)
	require.Equal(t, 399.0, order.TotalAmount)
}

func TestTransitionEnforcesTable(t *testing.T) {
	svc, db := newOrderService(t)
	buyer := seedUser(t, db, models.RoleUser)
	p := seedProject(t, db, 100)

	order, err := svc.CreateProjectOrder(buyer.ID, p.ID)
	require.NoError(t, err)

	// PENDING cannot jump straight to COMPLETED.
	_, err = svc.Transition(order.ID, models.StatusCompleted)
	var invErr *models.InvalidTransitionError
	require.ErrorAs(t, err, &invErr)

	order, err = svc.Transition(order.ID, models.StatusPaid)
	require.NoError(t, err)
	require.Equal(t, models.StatusPaid, order.Status)

	order, err = svc.Transition(order.ID, models.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, order.Status)

	// Terminal state: nothing moves.
	_, err = svc.Transition(order.ID, models.StatusRefunded)
	require.ErrorAs(t, err, &invErr)
}

func TestTransitionFiresPaidEventOnce(t *testing.T) {
	svc, db := newOrderService(t)
	buyer := seedUser(t, db, models.RoleUser)
	p := seedProject(t, db, 100)

	event.Flush()
	t.Cleanup(event.Flush)

	var fired int
	event.Listen(event.OrderPaid, func(payload interface{}) { fired++ })

	order, err := svc.CreateProjectOrder(buyer.ID, p.ID)
	require.NoError(t, err)

	_, err = svc.Transition(order.ID, models.StatusPaid)
	require.NoError(t, err)
	require.Equal(t, 1, fired)

	// Same-state replay: no error, no second event.
	_, err = svc.Transition(order.ID, models.StatusPaid)
	require.NoError(t, err)
	require.Equal(t, 1, fired)
}

func TestStatusWriteIsGuardedByObservedState(t *testing.T) {
	svc, db := newOrderService(t)
	buyer := seedUser(t, db, models.RoleUser)
	p := seedProject(t, db, 100)

	order, err := svc.CreateProjectOrder(buyer.ID, p.ID)
	require.NoError(t, err)

	repo := repositories.NewOrderRepository(db)
	moved, err := repo.UpdateStatusFrom(order.ID, models.StatusPending, models.StatusPaid)
	require.NoError(t, err)
	require.True(t, moved)

	// A second writer that still believes the order is PENDING loses.
	moved, err = repo.UpdateStatusFrom(order.ID, models.StatusPending, models.StatusCancelled)
	require.NoError(t, err)
	require.False(t, moved)

	got, err := svc.Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPaid, got.Status)
}

func TestTransitionAfterLostRaceIsIdempotent(t *testing.T) {
	svc, db := newOrderService(t)
	buyer := seedUser(t, db, models.RoleUser)
	p := seedProject(t, db, 100)

	event.Flush()
	t.Cleanup(event.Flush)
	var fired int
	event.Listen(event.OrderPaid, func(interface{}) { fired++ })

	order, err := svc.CreateProjectOrder(buyer.ID, p.ID)
	require.NoError(t, err)

	// Another process already settled the order.
	repo := repositories.NewOrderRepository(db)
	moved, err := repo.UpdateStatusFrom(order.ID, models.StatusPending, models.StatusPaid)
	require.NoError(t, err)
	require.True(t, moved)

	// The late caller converges on the settled state without firing.
	got, err := svc.Transition(order.ID, models.StatusPaid)
	require.NoError(t, err)
	require.Equal(t, models.StatusPaid, got.Status)
	require.Equal(t, 0, fired)
}

func TestHistoryCombinesOrdersAndPrebookings(t *testing.T) {
	svc, db := newOrderService(t)
	buyer := seedUser(t, db, models.RoleUser)
	p := seedProject(t, db, 100)

	_, err := svc.CreateProjectOrder(buyer.ID, p.ID)
	require.NoError(t, err)
	_, err = svc.CreatePrebooking(buyer.ID, "Beta product", `{"phone":"123"}`, 499, "")
	require.NoError(t, err)

	history, err := svc.History(buyer.ID)
	require.NoError(t, err)
	require.Len(t, history.Orders, 1)
	require.Len(t, history.Prebookings, 1)
	require.Equal(t, "INR", history.Prebookings[0].Currency)
}
