package repository

import (
	"time"

	"campus-restaurant/internal/models"

	"gorm.io/gorm"
)

type ArchivedOrderRepository interface {
	GetByOrderNumber(orderNumber string) (*models.ArchivedOrder, error)
	GetByCreatedRange(start, end time.Time) ([]models.ArchivedOrder, error)
	GetAll() ([]models.ArchivedOrder, error)
	// Archive inserts the snapshot and deletes the live order in a single
	// transaction, closing the partial-archive window.
	Archive(archived *models.ArchivedOrder, liveOrderID uint) error
}

type archivedOrderRepository struct {
	db *gorm.DB
}

func NewArchivedOrderRepository(db *gorm.DB) ArchivedOrderRepository {
	return &archivedOrderRepository{db: db}
}

func (r *archivedOrderRepository) GetByOrderNumber(orderNumber string) (*models.ArchivedOrder, error) {
	var archived models.ArchivedOrder
	err := r.db.Preload("Items").Where("order_number = ?", orderNumber).First(&archived).Error
	if err != nil {
		return nil, err
	}
	return &archived, nil
}

func (r *archivedOrderRepository) GetByCreatedRange(start, end time.Time) ([]models.ArchivedOrder, error) {
	var archived []models.ArchivedOrder
	err := r.db.Preload("Items").
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("archived_at DESC").
		Find(&archived).Error
	return archived, err
}

func (r *archivedOrderRepository) GetAll() ([]models.ArchivedOrder, error) {
	var archived []models.ArchivedOrder
	err := r.db.Preload("Items").Order("archived_at DESC").Find(&archived).Error
	return archived, err
}

func (r *archivedOrderRepository) Archive(archived *models.ArchivedOrder, liveOrderID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(archived).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", liveOrderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, liveOrderID).Error
	})
}
