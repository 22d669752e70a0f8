package repositories

import (
	"time"

	"github.com/workhive/workhive/app/models"
	"gorm.io/gorm"
)

// OrderRepository handles database operations for orders and prebookings.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// DB exposes the underlying handle for services that need their own
// transactions across repositories.
func (r *OrderRepository) DB() *gorm.DB { return r.db }

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var o models.Order
	err := r.db.First(&o, id).Error
	return o, err
}

func (r *OrderRepository) FindByGatewayOrderID(gatewayOrderID string) (models.Order, error) {
	var o models.Order
	err := r.db.Where("gateway_order_id = ?", gatewayOrderID).First(&o).Error
	return o, err
}

func (r *OrderRepository) Update(o *models.Order) error {
	return r.db.Save(o).Error
}

// UpdateStatusFrom flips the status only while the row still holds
// from. A false return means another writer moved the row first.
func (r *OrderRepository) UpdateStatusFrom(id uint, from, to models.PaymentStatus) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderRepository) ListByBuyer(buyerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("buyer_id = ?", buyerID).Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Order("created_at desc").Find(&orders).Error
	return orders, err
}

// StalePending returns PENDING orders created before cutoff. The
// reconciliation sweep settles these against the gateway.
func (r *OrderRepository) StalePending(cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Where("status = ? AND created_at < ? AND gateway_order_id <> ''", models.StatusPending, cutoff).
		Find(&orders).Error
	return orders, err
}

// CountByStatus groups order counts for the admin stats endpoint.
func (r *OrderRepository) CountByStatus() (map[models.PaymentStatus]int64, error) {
	type row struct {
		Status models.PaymentStatus
		N      int64
	}
	var rows []row
	err := r.db.Model(&models.Order{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.PaymentStatus]int64, len(rows))
	for _, rec := range rows {
		out[rec.Status] = rec.N
	}
	return out, nil
}

// Revenue sums the amount of orders that reached PAID or COMPLETED.
func (r *OrderRepository) Revenue() (float64, error) {
	var total float64
	err := r.db.Model(&models.Order{}).
		Where("status IN ?", []models.PaymentStatus{models.StatusPaid, models.StatusCompleted}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

// ── Prebookings ──

func (r *OrderRepository) CreatePrebooking(p *models.Prebooking) error {
	return r.db.Create(p).Error
}

func (r *OrderRepository) FindPrebookingByID(id uint) (models.Prebooking, error) {
	var p models.Prebooking
	err := r.db.First(&p, id).Error
	return p, err
}

func (r *OrderRepository) FindPrebookingByGatewayOrderID(gatewayOrderID string) (models.Prebooking, error) {
	var p models.Prebooking
	err := r.db.Where("gateway_order_id = ?", gatewayOrderID).First(&p).Error
	return p, err
}

func (r *OrderRepository) UpdatePrebooking(p *models.Prebooking) error {
	return r.db.Save(p).Error
}

// UpdatePrebookingStatusFrom is the guarded-status variant for
// prebookings.
func (r *OrderRepository) UpdatePrebookingStatusFrom(id uint, from, to models.PaymentStatus) (bool, error) {
	res := r.db.Model(&models.Prebooking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderRepository) ListPrebookingsByBuyer(buyerID uint) ([]models.Prebooking, error) {
	var list []models.Prebooking
	err := r.db.Where("buyer_id = ?", buyerID).Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *OrderRepository) ListAllPrebookings() ([]models.Prebooking, error) {
	var list []models.Prebooking
	err := r.db.Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *OrderRepository) StalePendingPrebookings(cutoff time.Time) ([]models.Prebooking, error) {
	var list []models.Prebooking
	err := r.db.
		Where("status = ? AND created_at < ? AND gateway_order_id <> ''", models.StatusPending, cutoff).
		Find(&list).Error
	return list, err
}
