package services

import (
	"fmt"

	"campus-restaurant/internal/authz"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/repository"
)

// DailyReport is the flat summary for one day plus the orders behind it.
// Revenue counts picked orders only; cancelled and in-progress orders
// contribute nothing.
type DailyReport struct {
	Date            string         `json:"date"`
	TotalOrders     int            `json:"total_orders"`
	CompletedOrders int            `json:"completed_orders"`
	PendingOrders   int            `json:"pending_orders"`
	TotalRevenue    float64        `json:"total_revenue"`
	Orders          []models.Order `json:"orders"`
}

type ReportService interface {
	DailyReport(actor authz.Actor, date string) (*DailyReport, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

// DailyReport recomputes the summary from the live orders on every call;
// nothing is cached.
func (s *reportService) DailyReport(actor authz.Actor, date string) (*DailyReport, error) {
	if !authz.Can(actor, 0, authz.ActionViewReports) {
		return nil, ErrForbidden
	}

	start, end, err := dayBounds(date)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.GetByCreatedRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	report := &DailyReport{
		Date:   start.Format("2006-01-02"),
		Orders: orders,
	}
	if report.Orders == nil {
		report.Orders = []models.Order{}
	}

	for i := range orders {
		report.TotalOrders++
		switch orders[i].Status {
		case models.OrderPicked:
			report.CompletedOrders++
			report.TotalRevenue += orders[i].Total()
		case models.OrderPending, models.OrderPreparing, models.OrderReady:
			report.PendingOrders++
		}
	}

	return report, nil
}
