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

	"gorm.io/gorm"
)

// ArchiveError records a single order that failed during a bulk run.
type ArchiveError struct {
	OrderNumber string `json:"order_number"`
	Error       string `json:"error"`
}

// BulkArchiveResult reports a bulk run. Partial success is the normal
// outcome, not an error state.
type BulkArchiveResult struct {
	ArchivedCount int            `json:"archived_count"`
	TotalFound    int            `json:"total_found"`
	Errors        []ArchiveError `json:"errors,omitempty"`
}

type ArchiveService interface {
	ArchiveOrder(actor authz.Actor, orderNumber string) error
	BulkArchive(actor authz.Actor, daysOld int) (*BulkArchiveResult, error)
	ListArchived(actor authz.Actor, date string) ([]models.ArchivedOrder, error)
}

type archiveService struct {
	orderRepo    repository.OrderRepository
	archivedRepo repository.ArchivedOrderRepository
	signals      ChangeSignaler
}

func NewArchiveService(orderRepo repository.OrderRepository, archivedRepo repository.ArchivedOrderRepository, signals ChangeSignaler) ArchiveService {
	return &archiveService{orderRepo: orderRepo, archivedRepo: archivedRepo, signals: signals}
}

// ArchiveOrder snapshots a picked order into the archive store and
// removes it from the live collection, in one transaction.
func (s *archiveService) ArchiveOrder(actor authz.Actor, orderNumber string) error {
	if !authz.Can(actor, 0, authz.ActionArchiveOrders) {
		return ErrForbidden
	}

	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if err := s.archive(order); err != nil {
		return err
	}

	s.bumpOrders()
	return nil
}

// BulkArchive archives every picked order older than daysOld days.
// daysOld 0 means no age filter. Each order is archived independently;
// failures are collected, never aborting the batch, and already-archived
// order numbers are skipped so re-runs are safe.
func (s *archiveService) BulkArchive(actor authz.Actor, daysOld int) (*BulkArchiveResult, error) {
	if !authz.Can(actor, 0, authz.ActionArchiveOrders) {
		return nil, ErrForbidden
	}
	if daysOld < 0 {
		return nil, ErrInvalidDaysOld
	}

	var cutoff *time.Time
	if daysOld > 0 {
		now := time.Now()
		c := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).
			AddDate(0, 0, -daysOld)
		cutoff = &c
	}

	orders, err := s.orderRepo.GetPickedBefore(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to select orders for archival: %w", err)
	}

	result := &BulkArchiveResult{TotalFound: len(orders)}
	for i := range orders {
		err := s.archive(&orders[i])
		switch {
		case err == nil:
			result.ArchivedCount++
		case errors.Is(err, ErrAlreadyArchived):
			// skip, re-runs are idempotent
		default:
			result.Errors = append(result.Errors, ArchiveError{
				OrderNumber: orders[i].OrderNumber,
				Error:       err.Error(),
			})
		}
	}

	if result.ArchivedCount > 0 {
		s.bumpOrders()
	}
	return result, nil
}

// ListArchived returns archived orders, optionally only those created on
// the given date, newest archived first.
func (s *archiveService) ListArchived(actor authz.Actor, date string) ([]models.ArchivedOrder, error) {
	if !authz.Can(actor, 0, authz.ActionArchiveOrders) {
		return nil, ErrForbidden
	}
	if date == "" {
		return s.archivedRepo.GetAll()
	}
	start, end, err := dayBounds(date)
	if err != nil {
		return nil, err
	}
	return s.archivedRepo.GetByCreatedRange(start, end)
}

func (s *archiveService) archive(order *models.Order) error {
	if order.Status != models.OrderPicked {
		return ErrOrderNotPicked
	}

	_, err := s.archivedRepo.GetByOrderNumber(order.OrderNumber)
	if err == nil {
		return ErrAlreadyArchived
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	snapshot := models.Snapshot(order, time.Now())
	if err := s.archivedRepo.Archive(snapshot, order.ID); err != nil {
		return fmt.Errorf("failed to archive order: %w", err)
	}
	return nil
}

func (s *archiveService) bumpOrders() {
	if s.signals == nil {
		return
	}
	if err := s.signals.BumpChangeToken(redis.ScopeOrders); err != nil {
		log.Printf("Warning: failed to bump order change token: %v", err)
	}
}
