package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"campus-restaurant/internal/authz"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/redis"
	"campus-restaurant/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderUpdate carries the fields a student may change while an order is
// still pending. Nil slices/strings leave the field untouched.
type OrderUpdate struct {
	Items               []models.OrderItem
	PickupTime          *string
	SpecialInstructions *string
}

type OrderService interface {
	PlaceOrder(actor authz.Actor, items []models.OrderItem, pickupTime, instructions string) (*models.Order, error)
	GetOrder(actor authz.Actor, id uint) (*models.Order, error)
	CurrentOrders(actor authz.Actor) ([]models.Order, error)
	OrderHistory(actor authz.Actor) ([]models.Order, error)
	EditOrder(actor authz.Actor, id uint, update OrderUpdate) (*models.Order, error)
	AdvanceStatus(actor authz.Actor, id uint, next models.OrderStatus) (*models.Order, error)
	Cancel(actor authz.Actor, id uint) (*models.Order, error)
	AllOrders(actor authz.Actor, statusFilter models.OrderStatus) ([]models.Order, error)
	CancelledOrders(actor authz.Actor) ([]models.Order, error)
	ClearCancelled(actor authz.Actor) (int64, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	signals   ChangeSignaler
}

func NewOrderService(orderRepo repository.OrderRepository, signals ChangeSignaler) OrderService {
	return &orderService{orderRepo: orderRepo, signals: signals}
}

// PlaceOrder creates a new pending order owned by the acting student.
func (s *orderService) PlaceOrder(actor authz.Actor, items []models.OrderItem, pickupTime, instructions string) (*models.Order, error) {
	if !authz.Can(actor, actor.UserID, authz.ActionPlaceOrder) {
		return nil, ErrForbidden
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if pickupTime == "" {
		return nil, fmt.Errorf("%w: pickup time is required", ErrInvalidOrder)
	}

	order := &models.Order{
		OrderNumber:         newOrderNumber(),
		UserID:              actor.UserID,
		Items:               items,
		PickupTime:          pickupTime,
		SpecialInstructions: instructions,
		Status:              models.OrderPending,
	}

	err := s.orderRepo.Create(order)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Order number collided with an existing one; one fresh draw is
		// enough at this keyspace.
		order.OrderNumber = newOrderNumber()
		err = s.orderRepo.Create(order)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.bumpOrders()
	return order, nil
}

func (s *orderService) GetOrder(actor authz.Actor, id uint) (*models.Order, error) {
	order, err := s.getOrder(id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, order.UserID, authz.ActionViewOrder) {
		return nil, ErrForbidden
	}
	return order, nil
}

// CurrentOrders returns the student's own non-terminal orders.
func (s *orderService) CurrentOrders(actor authz.Actor) ([]models.Order, error) {
	return s.orderRepo.GetByUserAndStatuses(actor.UserID, models.ActiveStatuses)
}

// OrderHistory returns the student's own terminal orders.
func (s *orderService) OrderHistory(actor authz.Actor) ([]models.Order, error) {
	return s.orderRepo.GetByUserAndStatuses(actor.UserID, models.TerminalStatuses)
}

// EditOrder updates items, pickup time or instructions on the student's
// own order. Allowed only while the order is pending; never changes status.
func (s *orderService) EditOrder(actor authz.Actor, id uint, update OrderUpdate) (*models.Order, error) {
	order, err := s.getOrder(id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, order.UserID, authz.ActionEditOrder) {
		return nil, ErrForbidden
	}
	if order.Status != models.OrderPending {
		return nil, ErrOrderNotEditable
	}

	if update.PickupTime != nil {
		if *update.PickupTime == "" {
			return nil, fmt.Errorf("%w: pickup time is required", ErrInvalidOrder)
		}
		order.PickupTime = *update.PickupTime
	}
	if update.SpecialInstructions != nil {
		order.SpecialInstructions = *update.SpecialInstructions
	}

	if update.Items != nil {
		if err := validateItems(update.Items); err != nil {
			return nil, err
		}
		if err := s.orderRepo.ReplaceItems(order, update.Items); err != nil {
			return nil, fmt.Errorf("failed to update order items: %w", err)
		}
	} else {
		if err := s.orderRepo.Update(order); err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
	}

	s.bumpOrders()
	return order, nil
}

// AdvanceStatus moves an order one step forward along
// pending -> preparing -> ready -> picked. Cancellation goes through
// Cancel, not here.
func (s *orderService) AdvanceStatus(actor authz.Actor, id uint, next models.OrderStatus) (*models.Order, error) {
	if !authz.Can(actor, 0, authz.ActionAdvanceOrder) {
		return nil, ErrForbidden
	}
	if !models.ValidStatus(next) {
		return nil, ErrInvalidStatus
	}

	order, err := s.getOrder(id)
	if err != nil {
		return nil, err
	}
	if next == models.OrderCancelled || !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	order.Status = next
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.bumpOrders()
	return order, nil
}

// Cancel moves an order to cancelled and records when and by whom.
// Students may cancel only their own pending orders; staff and managers
// may cancel any active order.
func (s *orderService) Cancel(actor authz.Actor, id uint) (*models.Order, error) {
	order, err := s.getOrder(id)
	if err != nil {
		return nil, err
	}

	if authz.Can(actor, 0, authz.ActionCancelAnyOrder) {
		if !order.Status.CanTransitionTo(models.OrderCancelled) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, models.OrderCancelled)
		}
	} else {
		if !authz.Can(actor, order.UserID, authz.ActionCancelOwnOrder) {
			return nil, ErrForbidden
		}
		if order.Status != models.OrderPending {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, models.OrderCancelled)
		}
	}

	now := time.Now()
	order.Status = models.OrderCancelled
	order.CancelledAt = &now
	order.CanceledBy = string(actor.Role)

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	s.bumpOrders()
	return order, nil
}

// AllOrders returns every live order, optionally filtered by status.
func (s *orderService) AllOrders(actor authz.Actor, statusFilter models.OrderStatus) ([]models.Order, error) {
	if !authz.Can(actor, 0, authz.ActionViewAllOrders) {
		return nil, ErrForbidden
	}
	if statusFilter == "" {
		return s.orderRepo.GetAll()
	}
	if !models.ValidStatus(statusFilter) {
		return nil, ErrInvalidStatus
	}
	return s.orderRepo.GetByStatus(statusFilter)
}

func (s *orderService) CancelledOrders(actor authz.Actor) ([]models.Order, error) {
	if !authz.Can(actor, 0, authz.ActionViewAllOrders) {
		return nil, ErrForbidden
	}
	return s.orderRepo.GetByStatus(models.OrderCancelled)
}

// ClearCancelled permanently deletes all cancelled orders.
func (s *orderService) ClearCancelled(actor authz.Actor) (int64, error) {
	if !authz.Can(actor, 0, authz.ActionClearCancelled) {
		return 0, ErrForbidden
	}
	deleted, err := s.orderRepo.DeleteCancelled()
	if err != nil {
		return 0, fmt.Errorf("failed to clear cancelled orders: %w", err)
	}
	if deleted > 0 {
		s.bumpOrders()
	}
	return deleted, nil
}

func (s *orderService) getOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) bumpOrders() {
	if s.signals == nil {
		return
	}
	if err := s.signals.BumpChangeToken(redis.ScopeOrders); err != nil {
		log.Printf("Warning: failed to bump order change token: %v", err)
	}
}

func validateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return ErrInvalidOrder
	}
	for _, item := range items {
		if item.Name == "" || item.Quantity < 1 || item.UnitPrice < 0 {
			return ErrInvalidOrder
		}
	}
	return nil
}

func newOrderNumber() string {
	return "ORD-" + uuid.NewString()[:8]
}
