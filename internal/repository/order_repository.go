package repository

import (
	"time"

	"campus-restaurant/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	GetByUserAndStatuses(userID uint, statuses []models.OrderStatus) ([]models.Order, error)
	GetByStatus(status models.OrderStatus) ([]models.Order, error)
	GetByCreatedRange(start, end time.Time) ([]models.Order, error)
	GetPickedBefore(cutoff *time.Time) ([]models.Order, error)
	CountByUserID(userID uint) (int64, error)
	Update(order *models.Order) error
	ReplaceItems(order *models.Order, items []models.OrderItem) error
	DeleteCancelled() (int64, error)
	GetAll() ([]models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByUserAndStatuses(userID uint, statuses []models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ? AND status IN ?", userID, statuses).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByStatus(status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByCreatedRange(start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// GetPickedBefore returns picked orders created before cutoff. A nil
// cutoff means no age filter, every picked order matches.
func (r *orderRepository) GetPickedBefore(cutoff *time.Time) ([]models.Order, error) {
	query := r.db.Preload("Items").Where("status = ?", models.OrderPicked)
	if cutoff != nil {
		query = query.Where("created_at < ?", *cutoff)
	}
	var orders []models.Order
	err := query.Order("created_at ASC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *orderRepository) Update(order *models.Order) error {
	// Items are managed through ReplaceItems, never saved along the way.
	return r.db.Omit(clause.Associations).Save(order).Error
}

// ReplaceItems swaps an order's line items for a new set in one
// transaction.
func (r *orderRepository) ReplaceItems(order *models.Order, items []models.OrderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.Items = items
		return tx.Omit(clause.Associations).Save(order).Error
	})
}

// DeleteCancelled removes every cancelled order and its line items,
// returning how many orders were deleted.
func (r *orderRepository) DeleteCancelled() (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Order{}).
			Where("status = ?", models.OrderCancelled).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.Order{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}
