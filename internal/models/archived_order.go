package models

import (
	"time"
)

// ArchivedOrder is an immutable snapshot of a picked order taken by the
// archival workflow. It never transitions status.
type ArchivedOrder struct {
	ID                  uint                `json:"id" gorm:"primaryKey"`
	OrderNumber         string              `json:"order_number" gorm:"not null;index"`
	UserID              uint                `json:"user_id" gorm:"not null"`
	Items               []ArchivedOrderItem `json:"items" gorm:"foreignKey:ArchivedOrderID"`
	PickupTime          string              `json:"pickup_time" gorm:"not null"`
	SpecialInstructions string              `json:"special_instructions" gorm:"type:text"`
	Status              OrderStatus         `json:"status" gorm:"default:'picked'"`
	CreatedAt           time.Time           `json:"created_at" gorm:"index"`
	CancelledAt         *time.Time          `json:"cancelled_at"`
	ArchivedAt          time.Time           `json:"archived_at" gorm:"index"`
}

type ArchivedOrderItem struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	ArchivedOrderID uint    `json:"archived_order_id" gorm:"not null;index"`
	Name            string  `json:"name" gorm:"not null"`
	Quantity        int     `json:"quantity" gorm:"not null"`
	UnitPrice       float64 `json:"unit_price" gorm:"not null"`
}

// Snapshot builds the archive copy of a live order, stamped at now.
func Snapshot(order *Order, now time.Time) *ArchivedOrder {
	items := make([]ArchivedOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ArchivedOrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return &ArchivedOrder{
		OrderNumber:         order.OrderNumber,
		UserID:              order.UserID,
		Items:               items,
		PickupTime:          order.PickupTime,
		SpecialInstructions: order.SpecialInstructions,
		Status:              order.Status,
		CreatedAt:           order.CreatedAt,
		CancelledAt:         order.CancelledAt,
		ArchivedAt:          now,
	}
}
