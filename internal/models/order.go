package models

import (
	"time"
)

type Order struct {
	ID                  uint        `json:"id" gorm:"primaryKey"`
	OrderNumber         string      `json:"order_number" gorm:"unique;not null"`
	UserID              uint        `json:"user_id" gorm:"not null;index:idx_orders_user_status"`
	Items               []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	PickupTime          string      `json:"pickup_time" gorm:"not null"`
	SpecialInstructions string      `json:"special_instructions" gorm:"type:text"`
	Status              OrderStatus `json:"status" gorm:"default:'pending';index;index:idx_orders_user_status"`
	CancelledAt         *time.Time  `json:"cancelled_at"`
	CanceledBy          string      `json:"canceled_by,omitempty"` // role of the actor that cancelled, empty otherwise
	CreatedAt           time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderPicked    OrderStatus = "picked"
	OrderCancelled OrderStatus = "cancelled"
)

// ActiveStatuses are the non-terminal statuses a live order can hold.
var ActiveStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderReady}

// TerminalStatuses end an order's lifecycle; no transition leaves them.
var TerminalStatuses = []OrderStatus{OrderPicked, OrderCancelled}

// nextStatus holds the single legal forward step for each status.
var nextStatus = map[OrderStatus]OrderStatus{
	OrderPending:   OrderPreparing,
	OrderPreparing: OrderReady,
	OrderReady:     OrderPicked,
}

// ValidStatus reports whether s is one of the five enumerated statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderPicked, OrderCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderPicked || s == OrderCancelled
}

// CanTransitionTo reports whether s -> next is a legal lifecycle step.
// Forward steps are strictly adjacent; cancellation is allowed from any
// active status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderCancelled {
		return !s.IsTerminal()
	}
	return nextStatus[s] == next
}

// Total is the sum of price*quantity over the order's line items.
func (o *Order) Total() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}
